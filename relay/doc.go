// Package relay implements the connection pagination merge policy for the
// cache: relay-style connections (edges, cursors, page info) accumulated
// across pages into a single stored list per key-argument partition.
//
// # Overview
//
// A connection field fetched page by page must grow one stable list rather
// than overwrite itself, and two invocations that differ in a content filter
// must grow two independent lists. Policy wires both behaviors into a
// cache.FieldPolicy:
//
//	"videos": relay.Policy("where")
//
// stores one list per distinct "where" argument and merges successive pages
// into it. Pagination arguments (after, before, first, last) never partition
// storage; they only drive the merge direction.
//
// # Merge Semantics
//
// Merge infers direction from the incoming request's arguments: "after"
// appends, "before" prepends, neither replaces. Edges are deduplicated by
// cursor with incoming edges replacing stored ones in place, so merging the
// same page twice is a no-op. The merged page info recomputes its outer
// cursors from the combined sequence instead of copying them blindly from
// the incoming payload.
package relay
