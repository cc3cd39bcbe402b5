package testsupport

import "testing"

func TestNewIDIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("NewID() returned an empty id")
		}
		if seen[id] {
			t.Fatalf("NewID() repeated %q", id)
		}
		seen[id] = true
	}
}

func TestEntityPayload(t *testing.T) {
	payload := EntityPayload("Video", "v1", map[string]any{"title": "A"})

	if payload["__typename"] != "Video" {
		t.Errorf("__typename = %v", payload["__typename"])
	}
	if payload["id"] != "v1" {
		t.Errorf("id = %v", payload["id"])
	}
	if payload["title"] != "A" {
		t.Errorf("title = %v", payload["title"])
	}

	bare := EntityPayload("Video", "v2", nil)
	if len(bare) != 2 {
		t.Errorf("bare payload = %v, want only tag and id", bare)
	}
}

func TestConnectionPayload(t *testing.T) {
	payload := ConnectionPayload(false, true, "a", "b")

	edges, ok := payload["edges"].([]any)
	if !ok || len(edges) != 2 {
		t.Fatalf("edges = %v", payload["edges"])
	}

	first, ok := edges[0].(map[string]any)
	if !ok {
		t.Fatalf("edge 0 = %T", edges[0])
	}
	if first["cursor"] != "a" {
		t.Errorf("cursor = %v", first["cursor"])
	}
	node, ok := first["node"].(map[string]any)
	if !ok {
		t.Fatalf("node = %T", first["node"])
	}
	if node["id"] != "video-a" || node["__typename"] != "Video" {
		t.Errorf("node = %v", node)
	}

	pageInfo, ok := payload["pageInfo"].(map[string]any)
	if !ok {
		t.Fatalf("pageInfo = %T", payload["pageInfo"])
	}
	if pageInfo["hasNextPage"] != true || pageInfo["hasPreviousPage"] != false {
		t.Errorf("pageInfo flags = %v", pageInfo)
	}
	if pageInfo["startCursor"] != "a" || pageInfo["endCursor"] != "b" {
		t.Errorf("pageInfo cursors = %v", pageInfo)
	}

	empty := ConnectionPayload(false, false)
	emptyInfo := empty["pageInfo"].(map[string]any)
	if _, ok := emptyInfo["startCursor"]; ok {
		t.Error("empty page should not carry cursors")
	}
}
