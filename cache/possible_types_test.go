package cache

import (
	"errors"
	"testing"
)

func newSearchResolver() *typeResolver {
	return newTypeResolver(
		map[string][]string{
			"SearchResult": {"Video", "Channel"},
		},
		map[string]TypePolicy{
			"Video":   {DiscriminatorFields: []string{"title", "duration"}},
			"Channel": {DiscriminatorFields: []string{"handle"}},
		},
	)
}

func TestTypeResolver_ExplicitTag(t *testing.T) {
	resolver := newSearchResolver()

	got, err := resolver.Resolve("SearchResult", map[string]any{
		"__typename": "Channel",
		"id":         "1",
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != "Channel" {
		t.Errorf("Resolve() = %q, want Channel", got)
	}
}

func TestTypeResolver_TagNotAMember(t *testing.T) {
	resolver := newSearchResolver()

	_, err := resolver.Resolve("SearchResult", map[string]any{
		"__typename": "Membership",
		"id":         "1",
	})
	if !errors.Is(err, ErrUnresolvedType) {
		t.Fatalf("Resolve() error = %v, want ErrUnresolvedType", err)
	}
}

func TestTypeResolver_FieldPresence(t *testing.T) {
	resolver := newSearchResolver()

	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			name:    "video fields",
			payload: map[string]any{"id": "1", "title": "t", "duration": 30.0},
			want:    "Video",
		},
		{
			name:    "channel fields",
			payload: map[string]any{"id": "2", "handle": "science"},
			want:    "Channel",
		},
		{
			name: "first matching candidate wins",
			payload: map[string]any{
				"id": "3", "title": "t", "duration": 30.0, "handle": "both",
			},
			want: "Video",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve("SearchResult", tt.payload)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeResolver_Unresolvable(t *testing.T) {
	resolver := newSearchResolver()

	_, err := resolver.Resolve("SearchResult", map[string]any{"id": "1"})
	if !errors.Is(err, ErrUnresolvedType) {
		t.Fatalf("Resolve() error = %v, want ErrUnresolvedType", err)
	}
}

func TestTypeResolver_UnknownAbstract(t *testing.T) {
	resolver := newSearchResolver()

	_, err := resolver.Resolve("FeedItem", map[string]any{"id": "1"})
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("Resolve() error = %v, want ErrUnknownType", err)
	}
}

func TestTypeResolver_IsAbstract(t *testing.T) {
	resolver := newSearchResolver()

	if !resolver.IsAbstract("SearchResult") {
		t.Error("IsAbstract(SearchResult) = false, want true")
	}
	if resolver.IsAbstract("Video") {
		t.Error("IsAbstract(Video) = true, want false")
	}
}
