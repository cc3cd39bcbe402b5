package relay

import (
	"errors"
	"fmt"
)

// Sentinel errors for connection decoding.
var (
	ErrNotConnection = errors.New("relay: value is not a connection payload")
	ErrBadEdge       = errors.New("relay: malformed edge payload")
)

// PageInfo carries the pagination cursors and flags of a connection page.
type PageInfo struct {
	HasNextPage     bool   `json:"hasNextPage" msgpack:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage" msgpack:"hasPreviousPage"`
	StartCursor     string `json:"startCursor" msgpack:"startCursor"`
	EndCursor       string `json:"endCursor" msgpack:"endCursor"`
}

// Edge is one element of a connection: a node and the cursor that addresses
// its position.
type Edge struct {
	Cursor string `json:"cursor" msgpack:"cursor"`
	Node   any    `json:"node" msgpack:"node"`
}

// Connection is the stored representation of a paginated list field: an
// ordered sequence of edges plus page info. It is the canonical in-memory
// form; incoming pages may arrive as generic payload maps and are decoded by
// FromValue.
type Connection struct {
	Edges    []Edge   `json:"edges" msgpack:"edges"`
	PageInfo PageInfo `json:"pageInfo" msgpack:"pageInfo"`
}

// FromValue decodes a stored or incoming value into a Connection. It accepts
// the typed form (Connection or *Connection) unchanged and decodes the
// generic map shape produced by JSON or snapshot deserialization.
func FromValue(value any) (Connection, error) {
	switch v := value.(type) {
	case Connection:
		return v, nil
	case *Connection:
		if v == nil {
			return Connection{}, fmt.Errorf("%w: nil", ErrNotConnection)
		}
		return *v, nil
	case map[string]any:
		return fromMap(v)
	default:
		return Connection{}, fmt.Errorf("%w: %T", ErrNotConnection, value)
	}
}

func fromMap(m map[string]any) (Connection, error) {
	var conn Connection

	rawEdges, ok := m["edges"]
	if !ok {
		return Connection{}, fmt.Errorf("%w: missing edges", ErrNotConnection)
	}
	edges, ok := rawEdges.([]any)
	if !ok {
		// A replay of an already-decoded value keeps the typed edge slice.
		if typed, isTyped := rawEdges.([]Edge); isTyped {
			conn.Edges = append(conn.Edges, typed...)
			conn.PageInfo = pageInfoFrom(m["pageInfo"])
			return conn, nil
		}
		return Connection{}, fmt.Errorf("%w: edges is %T", ErrNotConnection, rawEdges)
	}

	conn.Edges = make([]Edge, 0, len(edges))
	for i, raw := range edges {
		em, ok := raw.(map[string]any)
		if !ok {
			if typed, isTyped := raw.(Edge); isTyped {
				conn.Edges = append(conn.Edges, typed)
				continue
			}
			return Connection{}, fmt.Errorf("%w: edge %d is %T", ErrBadEdge, i, raw)
		}
		cursor, ok := em["cursor"].(string)
		if !ok || cursor == "" {
			return Connection{}, fmt.Errorf("%w: edge %d has no cursor", ErrBadEdge, i)
		}
		conn.Edges = append(conn.Edges, Edge{Cursor: cursor, Node: em["node"]})
	}

	conn.PageInfo = pageInfoFrom(m["pageInfo"])
	return conn, nil
}

func pageInfoFrom(value any) PageInfo {
	m, ok := value.(map[string]any)
	if !ok {
		if typed, isTyped := value.(PageInfo); isTyped {
			return typed
		}
		return PageInfo{}
	}
	var pi PageInfo
	pi.HasNextPage, _ = m["hasNextPage"].(bool)
	pi.HasPreviousPage, _ = m["hasPreviousPage"].(bool)
	pi.StartCursor, _ = m["startCursor"].(string)
	pi.EndCursor, _ = m["endCursor"].(string)
	return pi
}
