package relay

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func edge(cursor string) Edge {
	return Edge{Cursor: cursor, Node: map[string]any{"id": "video-" + cursor}}
}

func connection(hasPrev, hasNext bool, cursors ...string) Connection {
	c := Connection{
		PageInfo: PageInfo{HasPreviousPage: hasPrev, HasNextPage: hasNext},
	}
	for _, cur := range cursors {
		c.Edges = append(c.Edges, edge(cur))
	}
	setCursors(&c)
	c.PageInfo.HasPreviousPage = hasPrev
	c.PageInfo.HasNextPage = hasNext
	return c
}

func cursorsOf(c Connection) []string {
	out := make([]string, len(c.Edges))
	for i, e := range c.Edges {
		out[i] = e.Cursor
	}
	return out
}

func TestMerge_FirstPage(t *testing.T) {
	page := connection(false, true, "a", "b")

	got := Merge(nil, page, map[string]any{"first": 2})
	if diff := cmp.Diff(page, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_ForwardAppend(t *testing.T) {
	stored := connection(false, true, "a", "b")
	page := connection(true, false, "c", "d")

	got := Merge(&stored, page, map[string]any{"first": 2, "after": "b"})

	wantCursors := []string{"a", "b", "c", "d"}
	if diff := cmp.Diff(wantCursors, cursorsOf(got)); diff != "" {
		t.Errorf("edge order mismatch (-want +got):\n%s", diff)
	}

	wantInfo := PageInfo{
		HasPreviousPage: false,
		HasNextPage:     false,
		StartCursor:     "a",
		EndCursor:       "d",
	}
	if diff := cmp.Diff(wantInfo, got.PageInfo); diff != "" {
		t.Errorf("page info mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_ForwardIdempotent(t *testing.T) {
	stored := connection(false, true, "a", "b")
	page := connection(true, true, "c", "d")
	args := map[string]any{"first": 2, "after": "b"}

	once := Merge(&stored, page, args)
	twice := Merge(&once, page, args)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("remerging the same page changed the result (-once +twice):\n%s", diff)
	}
}

func TestMerge_ForwardOverlapReplacesInPlace(t *testing.T) {
	stored := connection(false, true, "a", "b", "c")

	// Overlapping refetch of the tail: edge c arrives with a fresher node.
	page := Connection{
		Edges: []Edge{
			{Cursor: "c", Node: map[string]any{"id": "video-c", "views": 10.0}},
			{Cursor: "d", Node: map[string]any{"id": "video-d"}},
		},
		PageInfo: PageInfo{HasNextPage: false, HasPreviousPage: true, StartCursor: "c", EndCursor: "d"},
	}

	got := Merge(&stored, page, map[string]any{"after": "b"})

	wantCursors := []string{"a", "b", "c", "d"}
	if diff := cmp.Diff(wantCursors, cursorsOf(got)); diff != "" {
		t.Fatalf("edge order mismatch (-want +got):\n%s", diff)
	}

	node, ok := got.Edges[2].Node.(map[string]any)
	if !ok {
		t.Fatalf("edge c node has type %T", got.Edges[2].Node)
	}
	if node["views"] != 10.0 {
		t.Errorf("edge c was not replaced by the incoming edge: %v", node)
	}
}

func TestMerge_BackwardPrepend(t *testing.T) {
	stored := connection(true, false, "c", "d")
	page := connection(false, true, "a", "b")

	got := Merge(&stored, page, map[string]any{"last": 2, "before": "c"})

	wantCursors := []string{"a", "b", "c", "d"}
	if diff := cmp.Diff(wantCursors, cursorsOf(got)); diff != "" {
		t.Errorf("edge order mismatch (-want +got):\n%s", diff)
	}

	wantInfo := PageInfo{
		HasPreviousPage: false,
		HasNextPage:     false,
		StartCursor:     "a",
		EndCursor:       "d",
	}
	if diff := cmp.Diff(wantInfo, got.PageInfo); diff != "" {
		t.Errorf("page info mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_BackwardIdempotent(t *testing.T) {
	stored := connection(true, false, "c", "d")
	page := connection(true, true, "a", "b")
	args := map[string]any{"last": 2, "before": "c"}

	once := Merge(&stored, page, args)
	twice := Merge(&once, page, args)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("remerging the same page changed the result (-once +twice):\n%s", diff)
	}
}

func TestMerge_ResetReplaces(t *testing.T) {
	stored := connection(false, true, "a", "b", "c")
	fresh := connection(false, true, "x", "y")

	got := Merge(&stored, fresh, map[string]any{"first": 2})

	if diff := cmp.Diff(fresh, got); diff != "" {
		t.Errorf("a cursor-less query should replace the stored list (-want +got):\n%s", diff)
	}
}

func TestMerge_EmptyIncomingForward(t *testing.T) {
	stored := connection(false, true, "a", "b")
	empty := Connection{PageInfo: PageInfo{HasNextPage: false, HasPreviousPage: true}}

	got := Merge(&stored, empty, map[string]any{"after": "b"})

	wantCursors := []string{"a", "b"}
	if diff := cmp.Diff(wantCursors, cursorsOf(got)); diff != "" {
		t.Errorf("edge order mismatch (-want +got):\n%s", diff)
	}
	if got.PageInfo.HasNextPage {
		t.Error("an empty forward page should clear hasNextPage")
	}
	if got.PageInfo.StartCursor != "a" || got.PageInfo.EndCursor != "b" {
		t.Errorf("cursors should come from the surviving edges: %+v", got.PageInfo)
	}
}

func TestMergeValue_PayloadMaps(t *testing.T) {
	pageOne := map[string]any{
		"edges": []any{
			map[string]any{"cursor": "a", "node": map[string]any{"id": "video-a"}},
			map[string]any{"cursor": "b", "node": map[string]any{"id": "video-b"}},
		},
		"pageInfo": map[string]any{
			"hasNextPage": true, "hasPreviousPage": false,
			"startCursor": "a", "endCursor": "b",
		},
	}
	pageTwo := map[string]any{
		"edges": []any{
			map[string]any{"cursor": "c", "node": map[string]any{"id": "video-c"}},
		},
		"pageInfo": map[string]any{
			"hasNextPage": false, "hasPreviousPage": true,
			"startCursor": "c", "endCursor": "c",
		},
	}

	first, err := MergeValue(nil, pageOne, mergeContext(map[string]any{"first": 2}))
	if err != nil {
		t.Fatalf("MergeValue() first page error: %v", err)
	}

	second, err := MergeValue(first, pageTwo, mergeContext(map[string]any{"first": 2, "after": "b"}))
	if err != nil {
		t.Fatalf("MergeValue() second page error: %v", err)
	}

	conn, ok := second.(Connection)
	if !ok {
		t.Fatalf("MergeValue() returned %T, want Connection", second)
	}

	wantCursors := []string{"a", "b", "c"}
	if diff := cmp.Diff(wantCursors, cursorsOf(conn)); diff != "" {
		t.Errorf("edge order mismatch (-want +got):\n%s", diff)
	}
	if conn.PageInfo.HasNextPage {
		t.Error("hasNextPage should come from the last page")
	}
}

func TestMergeValue_RejectsNonConnection(t *testing.T) {
	_, err := MergeValue(nil, "not a connection", mergeContext(nil))
	if err == nil {
		t.Fatal("MergeValue() should reject a non-connection payload")
	}
}

func TestPolicy_KeyArgModes(t *testing.T) {
	partitioned := Policy("where")
	if partitioned.NoKeyArgs {
		t.Error("Policy with key args should not set NoKeyArgs")
	}
	if len(partitioned.KeyArgs) != 1 || partitioned.KeyArgs[0] != "where" {
		t.Errorf("Policy key args = %v, want [where]", partitioned.KeyArgs)
	}
	if partitioned.Merge == nil {
		t.Error("Policy should install the connection merge")
	}

	single := Policy()
	if !single.NoKeyArgs {
		t.Error("Policy without key args should collapse to a single slot")
	}
}
