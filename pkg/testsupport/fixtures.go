// Package testsupport provides fixture loading and payload builders shared
// by the cache test suites.
package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
// The path is relative to the test package directory.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// FixturePath constructs a path to a fixture file relative to the testdata
// directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// NewID returns a fresh entity identifier for test payloads.
func NewID() string {
	return uuid.NewString()
}

// EntityPayload builds a minimal normalizable payload: a type tag, an id,
// and any extra fields.
func EntityPayload(typeName, id string, fields map[string]any) map[string]any {
	payload := map[string]any{
		"__typename": typeName,
		"id":         id,
	}
	for k, v := range fields {
		payload[k] = v
	}
	return payload
}

// EdgePayload builds one connection edge in generic payload form.
func EdgePayload(cursor string, node any) map[string]any {
	return map[string]any{
		"cursor": cursor,
		"node":   node,
	}
}

// ConnectionPayload builds a connection page in generic payload form. Each
// cursor becomes an edge whose node is a Video entity derived from the
// cursor, so tests can follow pagination by eye.
func ConnectionPayload(hasPrev, hasNext bool, cursors ...string) map[string]any {
	edges := make([]any, len(cursors))
	for i, cursor := range cursors {
		edges[i] = EdgePayload(cursor, map[string]any{
			"__typename": "Video",
			"id":         "video-" + cursor,
			"title":      fmt.Sprintf("Video %s", cursor),
		})
	}

	pageInfo := map[string]any{
		"hasNextPage":     hasNext,
		"hasPreviousPage": hasPrev,
	}
	if len(cursors) > 0 {
		pageInfo["startCursor"] = cursors[0]
		pageInfo["endCursor"] = cursors[len(cursors)-1]
	}

	return map[string]any{
		"edges":    edges,
		"pageInfo": pageInfo,
	}
}
