package cache

import "log/slog"

// MergeContext carries the metadata a merge function may need: the owning
// type, the field being written, and the arguments of the invocation that
// produced the incoming value.
type MergeContext struct {
	TypeName string
	Field    string
	Args     map[string]any
	Logger   *slog.Logger
}

// MergeFunc combines the existing stored value of a field slot with an
// incoming value and returns the value to store. existing is nil when the
// slot has never been written. A nil MergeFunc means the incoming value
// replaces the existing one.
//
// Merge functions must be pure: no store access, no I/O, bounded by the size
// of their inputs.
type MergeFunc func(existing, incoming any, mctx *MergeContext) (any, error)

// KeyArgsFunc computes a custom partition suffix from the full argument set
// of a field invocation. Returning an empty string collapses the invocation
// into the field's default slot.
type KeyArgsFunc func(args map[string]any) (string, error)

// FieldPolicy configures how a single field of a type is stored and merged.
//
// Exactly one key-argument mode applies:
//   - zero value: every argument participates in the storage key, sorted by
//     name (two calls differing in any argument occupy different slots);
//   - NoKeyArgs: arguments are ignored, the field has a single slot;
//   - KeyArgs: only the named arguments partition storage, serialized in the
//     declared order. An argument that is absent from a call is omitted from
//     the key, so an explicit null and a missing argument produce different
//     slots;
//   - KeyArgsFunc: full custom control, overrides KeyArgs.
type FieldPolicy struct {
	KeyArgs     []string
	NoKeyArgs   bool
	KeyArgsFunc KeyArgsFunc
	Merge       MergeFunc
}

// TypePolicy configures identity and per-field behavior for one object type.
type TypePolicy struct {
	// KeyField names the field that identifies records of this type.
	// Empty means "id".
	KeyField string

	// DiscriminatorFields lists fields whose joint presence identifies a
	// payload as this concrete type when no explicit type tag is available.
	// Only consulted during polymorphic resolution.
	DiscriminatorFields []string

	// Fields maps field names to their policies.
	Fields map[string]FieldPolicy
}

// DefaultKeyField is the identifier field assumed when a TypePolicy does not
// name one.
const DefaultKeyField = "id"

func (p TypePolicy) keyField() string {
	if p.KeyField != "" {
		return p.KeyField
	}
	return DefaultKeyField
}
