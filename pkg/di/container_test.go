package di

import (
	"context"
	"testing"

	"github.com/goliatone/go-graphql-cache/cache"
)

func TestNewContainer(t *testing.T) {
	container, err := NewContainer(cache.Config{
		TypePolicies: map[string]cache.TypePolicy{
			"Video": {},
		},
	})
	if err != nil {
		t.Fatalf("NewContainer() error: %v", err)
	}

	if container.Cache() == nil {
		t.Fatal("Cache() returned nil")
	}
	if container.KeySerializer() == nil {
		t.Fatal("KeySerializer() returned nil")
	}
	if container.Config().KeySerializer == nil {
		t.Error("Config() should carry the defaulted serializer")
	}

	// The container hands out the same instance every time.
	if container.Cache() != container.Cache() {
		t.Error("Cache() returned different instances")
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	_, err := NewContainer(cache.Config{
		TypePolicies: map[string]cache.TypePolicy{
			"Query": {
				Fields: map[string]cache.FieldPolicy{
					"videos": {NoKeyArgs: true, KeyArgs: []string{"where"}},
				},
			},
		},
	})
	if err == nil {
		t.Fatal("NewContainer() accepted a contradictory field policy")
	}
}

func TestContainerKeepsCustomSerializer(t *testing.T) {
	custom := staticSerializer{}
	container, err := NewContainer(cache.Config{KeySerializer: custom})
	if err != nil {
		t.Fatalf("NewContainer() error: %v", err)
	}

	if _, ok := container.KeySerializer().(staticSerializer); !ok {
		t.Errorf("KeySerializer() = %T, want the provided one", container.KeySerializer())
	}

	key, err := container.Cache().FieldStorageKey("Query", "videos", map[string]any{"where": "x"})
	if err != nil {
		t.Fatalf("FieldStorageKey() error: %v", err)
	}
	if key != "static" {
		t.Errorf("custom serializer was not wired into the cache, key = %q", key)
	}
}

func TestContainerCacheIsUsable(t *testing.T) {
	container, err := NewContainer(cache.Config{})
	if err != nil {
		t.Fatalf("NewContainer() error: %v", err)
	}

	store := container.Cache()
	if err := store.WriteField(context.Background(), "Video", "v1", "title", nil, "Hello"); err != nil {
		t.Fatalf("WriteField() error: %v", err)
	}
	got, ok := store.ReadField(context.Background(), "Video", "v1", "title", nil)
	if !ok || got != "Hello" {
		t.Errorf("ReadField() = %v, %v", got, ok)
	}
}

type staticSerializer struct{}

func (staticSerializer) SerializeFieldKey(string, []cache.KeyArg) string { return "static" }
