package relay

import (
	"fmt"

	"github.com/goliatone/go-graphql-cache/cache"
)

// Merge combines an existing stored connection with an incoming page.
//
// Direction is inferred from the arguments of the request that produced the
// incoming page: an "after" cursor means forward pagination (append), a
// "before" cursor means backward (prepend), and neither means the incoming
// page replaces the stored value entirely (a fresh or reset query).
//
// Edges are deduplicated by cursor: an incoming edge whose cursor is already
// stored replaces the stored edge in place rather than duplicating it, which
// makes the merge idempotent. Page info of the result takes its cursors from
// the outermost edges of the combined sequence, and its has-more flags from
// whichever input now holds that end of the sequence.
func Merge(existing *Connection, incoming Connection, args map[string]any) Connection {
	if existing == nil || len(existing.Edges) == 0 {
		return incoming
	}

	_, forward := args["after"]
	_, backward := args["before"]

	switch {
	case forward:
		return mergeForward(*existing, incoming)
	case backward:
		return mergeBackward(*existing, incoming)
	default:
		return incoming
	}
}

func mergeForward(existing, incoming Connection) Connection {
	replacements := make(map[string]Edge, len(incoming.Edges))
	for _, e := range incoming.Edges {
		replacements[e.Cursor] = e
	}

	stored := make(map[string]bool, len(existing.Edges))
	edges := make([]Edge, 0, len(existing.Edges)+len(incoming.Edges))

	for _, e := range existing.Edges {
		stored[e.Cursor] = true
		if replacement, ok := replacements[e.Cursor]; ok {
			edges = append(edges, replacement)
			continue
		}
		edges = append(edges, e)
	}
	for _, e := range incoming.Edges {
		if !stored[e.Cursor] {
			edges = append(edges, e)
		}
	}

	merged := Connection{Edges: edges}
	merged.PageInfo.HasPreviousPage = existing.PageInfo.HasPreviousPage
	merged.PageInfo.HasNextPage = incoming.PageInfo.HasNextPage
	setCursors(&merged)
	return merged
}

func mergeBackward(existing, incoming Connection) Connection {
	replacements := make(map[string]Edge, len(incoming.Edges))
	for _, e := range incoming.Edges {
		replacements[e.Cursor] = e
	}

	stored := make(map[string]bool, len(existing.Edges))
	for _, e := range existing.Edges {
		stored[e.Cursor] = true
	}

	edges := make([]Edge, 0, len(existing.Edges)+len(incoming.Edges))
	for _, e := range incoming.Edges {
		if !stored[e.Cursor] {
			edges = append(edges, e)
		}
	}
	for _, e := range existing.Edges {
		if replacement, ok := replacements[e.Cursor]; ok {
			edges = append(edges, replacement)
			continue
		}
		edges = append(edges, e)
	}

	merged := Connection{Edges: edges}
	merged.PageInfo.HasPreviousPage = incoming.PageInfo.HasPreviousPage
	merged.PageInfo.HasNextPage = existing.PageInfo.HasNextPage
	setCursors(&merged)
	return merged
}

// setCursors recomputes the outer cursors from the combined edge sequence.
func setCursors(c *Connection) {
	if len(c.Edges) == 0 {
		c.PageInfo.StartCursor = ""
		c.PageInfo.EndCursor = ""
		return
	}
	c.PageInfo.StartCursor = c.Edges[0].Cursor
	c.PageInfo.EndCursor = c.Edges[len(c.Edges)-1].Cursor
}

// MergeValue is a cache.MergeFunc that accumulates connection pages. The
// existing value may be absent (first page ever fetched for the slot) or the
// stored typed form; the incoming value may be a typed Connection or a
// generic payload map.
func MergeValue(existing, incoming any, mctx *cache.MergeContext) (any, error) {
	page, err := FromValue(incoming)
	if err != nil {
		return nil, fmt.Errorf("incoming page: %w", err)
	}

	var prev *Connection
	if existing != nil {
		stored, err := FromValue(existing)
		if err != nil {
			return nil, fmt.Errorf("stored connection: %w", err)
		}
		prev = &stored
	}

	return Merge(prev, page, mctx.Args), nil
}

// Policy builds the field policy for a connection field. keyArgs names the
// content-filter arguments that partition the field into independent stored
// lists; pagination arguments (after, before, first, last) must not be
// listed. With no keyArgs the field accumulates into a single slot no matter
// what arguments it was called with.
func Policy(keyArgs ...string) cache.FieldPolicy {
	policy := cache.FieldPolicy{Merge: MergeValue}
	if len(keyArgs) == 0 {
		policy.NoKeyArgs = true
		return policy
	}
	policy.KeyArgs = keyArgs
	return policy
}
