// Package cache provides a normalized object cache for GraphQL-backed
// applications, configured through declarative per-type, per-field policies.
//
// # Overview
//
// Server responses arrive as nested, possibly duplicated objects. The cache
// flattens them into records keyed by object identity (type name plus an
// identifier field), so that two responses describing the same logical
// entity merge into one record. Three policy mechanisms govern how data
// lands in those records:
//
//   - Field storage keys: a field invocation's value is stored under a key
//     derived from the field name and a configurable subset of its call
//     arguments. Calls that differ in a key argument occupy independent
//     slots; calls that differ only in pagination arguments share one slot
//     and merge.
//   - Merge functions: a FieldPolicy may install a MergeFunc that combines
//     the stored value with an incoming one (pagination accumulation, scalar
//     coercion). Without one, incoming replaces existing.
//   - Possible types: union and interface results are normalized under a
//     concrete member type selected from a static mapping, by explicit type
//     tag or by discriminator field presence.
//
// # Basic Usage
//
// Build a Config, validate-and-construct with New, and pass the instance to
// every call site; there is no package-level singleton:
//
//	store, err := cache.New(cache.Config{
//		TypePolicies: map[string]cache.TypePolicy{
//			"Query": {Fields: map[string]cache.FieldPolicy{
//				"videos": relay.Policy("where"),
//			}},
//		},
//	})
//
// Writes go through WriteField (one field invocation, with its arguments) or
// WriteObject (a full entity payload, normalized recursively). Reads mirror
// them:
//
//	err := store.WriteField(ctx, "Query", "ROOT", "videos", args, page)
//	value, ok := store.ReadField(ctx, "Query", "ROOT", "videos", args)
//
// # Key Serialization Strategy
//
// The default key serializer renders selected key arguments
// deterministically: maps are sorted by key, slices recurse element-wise,
// and complex types fall back to JSON. Two invocations whose selected key
// arguments are equal always share a storage slot, across runs. A missing
// argument is omitted from the key, so it never collides with an explicit
// null.
//
// # Error Handling
//
// Configuration problems fail at construction with ConfigError. Write-time
// failures are field-scoped: a FieldError reports one field of one type and
// never aborts sibling fields; WriteObject accumulates them in its
// WriteResult. Anything outside the documented input shapes propagates to
// the caller of the write operation.
//
// # See Also
//
// The relay package implements the connection pagination merge policy; the
// scalar package implements date-time coercion. For Prometheus metrics, see
// metrics/prom.
package cache
