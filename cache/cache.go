package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/goliatone/go-graphql-cache/internal/logging"
	"github.com/goliatone/go-graphql-cache/internal/normstore"
	"github.com/goliatone/go-graphql-cache/internal/resultcache"
)

// Ref points at a normalized record from a parent field slot. Values read
// back from the cache contain Refs where nested entities were normalized
// away; Deref follows one.
type Ref = normstore.Ref

// errNotCached signals a result cache fetch that found no stored value.
// It never escapes ReadField.
var errNotCached = errors.New("cache: value not present")

// Cache is a normalized object cache with per-type, per-field policies.
//
// Construct one with New at application start and pass it by reference to
// every call site; there is no ambient instance. The Cache is safe for
// concurrent use; individual policy functions are pure and must stay that
// way.
type Cache struct {
	policies map[string]TypePolicy
	resolver *typeResolver
	ser      KeySerializer
	store    *normstore.Store
	results  *resultcache.Service
	metrics  Metrics
	logger   *slog.Logger
}

// New constructs a configured Cache. The configuration is validated once
// here; an invalid policy registry fails construction rather than surfacing
// at write time.
func New(cfg Config) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ser := cfg.KeySerializer
	if ser == nil {
		ser = NewDefaultKeySerializer()
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	var results *resultcache.Service
	if cfg.ResultCache != nil {
		var err error
		results, err = resultcache.New(cfg.ResultCache.toInternal())
		if err != nil {
			return nil, err
		}
	}

	policies := make(map[string]TypePolicy, len(cfg.TypePolicies))
	for name, policy := range cfg.TypePolicies {
		policies[name] = policy
	}

	return &Cache{
		policies: policies,
		resolver: newTypeResolver(cfg.PossibleTypes, cfg.TypePolicies),
		ser:      ser,
		store:    normstore.New(),
		results:  results,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// EntityKey derives the record key for an entity from its type name and
// identifier. Two payloads describing the same logical entity always resolve
// to the same key.
func EntityKey(typeName, id string) string {
	return typeName + ":" + id
}

// FieldStorageKey computes the identity under which a field invocation's
// value is stored inside its parent record. It is a pure function of the
// field name, the call arguments, and the field's configured key-argument
// policy.
func (c *Cache) FieldStorageKey(typeName, field string, args map[string]any) (string, error) {
	policy := c.fieldPolicy(typeName, field)

	if policy.KeyArgsFunc != nil {
		suffix, err := policy.KeyArgsFunc(args)
		if err != nil {
			return "", err
		}
		if suffix == "" {
			return c.ser.SerializeFieldKey(field, nil), nil
		}
		return field + KeySeparator + suffix, nil
	}

	if policy.NoKeyArgs {
		return c.ser.SerializeFieldKey(field, nil), nil
	}

	if len(policy.KeyArgs) > 0 {
		selected := make([]KeyArg, 0, len(policy.KeyArgs))
		for _, name := range policy.KeyArgs {
			if value, ok := args[name]; ok {
				selected = append(selected, KeyArg{Name: name, Value: value})
			}
		}
		return c.ser.SerializeFieldKey(field, selected), nil
	}

	// Default: every argument is a key argument, sorted for determinism.
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	selected := make([]KeyArg, 0, len(names))
	for _, name := range names {
		selected = append(selected, KeyArg{Name: name, Value: args[name]})
	}
	return c.ser.SerializeFieldKey(field, selected), nil
}

// WriteField stores a value for one field invocation of one entity, applying
// the field's merge policy against the currently stored value. args are the
// full arguments of the invocation as sent to the server.
//
// The value is normalized first: identifiable nested payloads (connection
// nodes included) become records of their own, referenced by Ref. Values
// that fail to normalize stay embedded and are reported in the returned
// error; sibling elements and the field write itself still go through. A
// merge failure aborts the write.
func (c *Cache) WriteField(ctx context.Context, typeName, id, field string, args map[string]any, value any) error {
	fk, err := c.FieldStorageKey(typeName, field, args)
	if err != nil {
		c.metrics.FieldError("key")
		return &FieldError{TypeName: typeName, Field: field, Err: err}
	}

	key := EntityKey(typeName, id)
	rec := c.store.Ensure(key)

	res := WriteResult{}
	merged := c.normalizeValue(ctx, typeName, field, value, &res)
	if policy := c.fieldPolicy(typeName, field); policy.Merge != nil {
		existing, _ := rec.Get(fk)
		merged, err = policy.Merge(existing, merged, &MergeContext{
			TypeName: typeName,
			Field:    field,
			Args:     args,
			Logger:   c.logger,
		})
		if err != nil {
			c.metrics.FieldError("merge")
			return &FieldError{TypeName: typeName, Field: field, Err: err}
		}
	}

	rec.Set(fk, merged)
	c.metrics.Write()
	c.metrics.Size(c.store.Len())
	c.invalidate(key)
	return joinFieldErrors(res.FieldErrors)
}

// WriteObject normalizes an entity payload into the store. Nested payloads
// that carry a type tag and an identifier become records of their own,
// referenced by Ref from the parent slot. typeName may be an abstract type
// registered in PossibleTypes; the payload is then normalized under the
// resolved concrete type.
//
// Field-scoped failures (unresolvable union members, merge errors) are
// collected in the WriteResult and do not abort sibling fields. The returned
// error is non-nil only when the payload itself cannot be normalized.
func (c *Cache) WriteObject(ctx context.Context, typeName string, payload map[string]any) (WriteResult, error) {
	res := WriteResult{}
	key, err := c.writeObject(ctx, typeName, payload, &res)
	if err != nil {
		return res, err
	}
	res.EntityKey = key
	return res, nil
}

func (c *Cache) writeObject(ctx context.Context, typeName string, payload map[string]any, res *WriteResult) (string, error) {
	concrete := typeName
	if c.resolver.IsAbstract(typeName) {
		resolved, err := c.resolver.Resolve(typeName, payload)
		if err != nil {
			c.metrics.FieldError("resolve")
			return "", err
		}
		concrete = resolved
	} else if tag, ok := payload[TypenameField].(string); ok && tag != "" {
		concrete = tag
	}

	idField := c.typePolicy(concrete).keyField()
	id, ok := identifier(payload, idField)
	if !ok {
		c.metrics.FieldError("identify")
		return "", fmt.Errorf("%w: %s requires %q", ErrMissingIdentifier, concrete, idField)
	}

	key := EntityKey(concrete, id)
	rec := c.store.Ensure(key)

	// The resolved concrete name is stored under the discriminator slot so a
	// read can recover which union member the record normalized as.
	rec.Set(TypenameField, concrete)

	for field, value := range payload {
		if field == TypenameField {
			continue
		}

		normalized := c.normalizeValue(ctx, concrete, field, value, res)

		merged := normalized
		if policy := c.fieldPolicy(concrete, field); policy.Merge != nil {
			existing, _ := rec.Get(field)
			var err error
			merged, err = policy.Merge(existing, normalized, &MergeContext{
				TypeName: concrete,
				Field:    field,
				Logger:   c.logger,
			})
			if err != nil {
				c.metrics.FieldError("merge")
				res.FieldErrors = append(res.FieldErrors, &FieldError{TypeName: concrete, Field: field, Err: err})
				continue
			}
		}

		rec.Set(field, merged)
		c.metrics.Write()
	}

	c.metrics.Size(c.store.Len())
	c.invalidate(key)
	return key, nil
}

// normalizeValue rewrites nested entity payloads into Refs, descending
// through objects and lists. Values that fail to normalize are kept as-is
// and reported in res, so the surrounding result stays usable.
func (c *Cache) normalizeValue(ctx context.Context, typeName, field string, value any, res *WriteResult) any {
	switch v := value.(type) {
	case map[string]any:
		if ref, handled := c.tryNormalizeEntity(ctx, typeName, field, v, res); handled {
			return ref
		}
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = c.normalizeValue(ctx, typeName, field, e, res)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = c.normalizeValue(ctx, typeName, field, e, res)
		}
		return out
	default:
		return value
	}
}

// tryNormalizeEntity normalizes a type-tagged, identifiable payload into its
// own record and returns a Ref to it. Payloads without a tag or identifier
// stay embedded in the parent. A tagged payload that fails resolution is
// left unnormalized and reported as a field-scoped error.
func (c *Cache) tryNormalizeEntity(ctx context.Context, typeName, field string, payload map[string]any, res *WriteResult) (any, bool) {
	tag, _ := payload[TypenameField].(string)
	if tag == "" {
		return nil, false
	}

	target := tag
	if c.resolver.IsAbstract(tag) {
		resolved, err := c.resolver.Resolve(tag, payload)
		if err != nil {
			c.metrics.FieldError("resolve")
			res.FieldErrors = append(res.FieldErrors, &FieldError{TypeName: typeName, Field: field, Err: err})
			return payload, true
		}
		target = resolved
	}

	idField := c.typePolicy(target).keyField()
	if _, ok := identifier(payload, idField); !ok {
		return nil, false
	}

	key, err := c.writeObject(ctx, target, payload, res)
	if err != nil {
		res.FieldErrors = append(res.FieldErrors, &FieldError{TypeName: typeName, Field: field, Err: err})
		return payload, true
	}
	return Ref{Key: key}, true
}

// ReadField returns the stored value for one field invocation of one entity.
// The bool result reports presence; a missing entity and a missing slot are
// both absent.
func (c *Cache) ReadField(ctx context.Context, typeName, id, field string, args map[string]any) (any, bool) {
	fk, err := c.FieldStorageKey(typeName, field, args)
	if err != nil {
		return nil, false
	}

	key := EntityKey(typeName, id)
	if c.results == nil {
		return c.readDirect(key, fk)
	}

	value, err := c.results.GetOrFetch(ctx, key+KeySeparator+fk, func(ctx context.Context) (any, error) {
		v, ok := c.readDirect(key, fk)
		if !ok {
			return nil, errNotCached
		}
		return v, nil
	})
	if err != nil {
		return nil, false
	}
	return value, true
}

// ReadFieldAs is a type-safe wrapper around Cache.ReadField.
func ReadFieldAs[T any](ctx context.Context, c *Cache, typeName, id, field string, args map[string]any) (T, bool) {
	value, ok := c.ReadField(ctx, typeName, id, field, args)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := value.(T)
	return typed, ok
}

// ReadEntity returns a copy of an entity's record, keyed by field storage
// keys. Nested entities appear as Refs.
func (c *Cache) ReadEntity(ctx context.Context, typeName, id string) (map[string]any, bool) {
	rec, ok := c.store.Lookup(EntityKey(typeName, id))
	if !ok {
		c.metrics.Miss()
		return nil, false
	}
	c.metrics.Hit()
	return rec.Fields(), true
}

// Deref follows a Ref to the record it points at.
func (c *Cache) Deref(ref Ref) (map[string]any, bool) {
	rec, ok := c.store.Lookup(ref.Key)
	if !ok {
		return nil, false
	}
	return rec.Fields(), true
}

// Evict removes an entity's record. It reports whether a record existed.
// Eviction is an explicit, caller-driven operation; it must not run
// concurrently with an in-flight write to the same entity.
func (c *Cache) Evict(typeName, id string) bool {
	key := EntityKey(typeName, id)
	existed := c.store.Delete(key)
	c.invalidate(key)
	c.metrics.Size(c.store.Len())
	return existed
}

// Clear removes every record.
func (c *Cache) Clear() {
	c.store.Range(func(key string, _ *normstore.Record) bool {
		c.invalidate(key)
		return true
	})
	c.store.Clear()
	c.metrics.Size(0)
}

// Len returns the number of normalized records.
func (c *Cache) Len() int {
	return c.store.Len()
}

// Snapshot serializes the normalized state so it can be persisted or handed
// to another process; Restore hydrates it back.
func (c *Cache) Snapshot() ([]byte, error) {
	return c.store.Snapshot()
}

// Restore replaces the cache contents with a snapshot produced by Snapshot.
func (c *Cache) Restore(data []byte) error {
	if err := c.store.Restore(data); err != nil {
		return err
	}
	c.metrics.Size(c.store.Len())
	return nil
}

func (c *Cache) readDirect(key, fk string) (any, bool) {
	rec, ok := c.store.Lookup(key)
	if !ok {
		c.metrics.Miss()
		return nil, false
	}
	value, ok := rec.Get(fk)
	if ok {
		c.metrics.Hit()
	} else {
		c.metrics.Miss()
	}
	return value, ok
}

// invalidate drops memoized reads for one entity. The trailing separator
// keeps "Video:1" from matching "Video:10".
func (c *Cache) invalidate(entityKey string) {
	if c.results == nil {
		return
	}
	c.results.DeleteByPrefix(entityKey + KeySeparator)
}

func (c *Cache) typePolicy(typeName string) TypePolicy {
	return c.policies[typeName]
}

func (c *Cache) fieldPolicy(typeName, field string) FieldPolicy {
	return c.policies[typeName].Fields[field]
}

// identifier extracts an entity id from a payload. GraphQL ids arrive as
// strings, but JSON decoding can surface numeric ids, so numbers are
// formatted rather than rejected.
func identifier(payload map[string]any, idField string) (string, bool) {
	value, ok := payload[idField]
	if !ok || value == nil {
		return "", false
	}
	switch v := value.(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case float64, int, int64:
		return fmt.Sprintf("%v", v), true
	default:
		return "", false
	}
}
