// Package scalar implements merge policies for scalar fields whose transport
// representation is ambiguous: the value may arrive as its raw wire form or
// already materialized. The policies normalize to one canonical in-memory
// representation, idempotently.
package scalar

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goliatone/go-graphql-cache/cache"
)

// Sentinel errors for scalar coercion.
var (
	// ErrInvalidDateTime reports a raw date-time string that does not parse.
	ErrInvalidDateTime = errors.New("scalar: invalid date-time value")

	// ErrUnsupportedDateTime reports a value that is neither a raw string
	// nor an already-parsed time.Time.
	ErrUnsupportedDateTime = errors.New("scalar: unsupported date-time representation")
)

// NormalizeDateTime coerces an incoming date-time value to the canonical
// time.Time form. It is total over the two documented representations:
//
//   - a raw ISO-8601 / RFC 3339 string, which is parsed (a parse failure is
//     a detectable error, never a silently stored invalid value);
//   - an already-parsed time.Time, which passes through unchanged, so
//     normalizing twice equals normalizing once.
//
// A time.Time arriving here means some upstream layer materialized the value
// before the cache saw it; the source of that is not fully understood, so
// the pass-through is logged rather than silently accepted. Any other
// runtime shape is an error.
func NormalizeDateTime(value any, logger *slog.Logger) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		if logger != nil {
			logger.Warn("date-time value arrived pre-parsed",
				"value", v.Format(time.RFC3339),
			)
		}
		return v, nil
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDateTime, v, err)
		}
		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("%w: %T", ErrUnsupportedDateTime, value)
	}
}

// MergeDateTime is a cache.MergeFunc for ambiguous date-time fields. The
// existing value is always overwritten; the incoming value is normalized to
// time.Time. A coercion failure surfaces as a field-scoped write error.
func MergeDateTime(existing, incoming any, mctx *cache.MergeContext) (any, error) {
	var logger *slog.Logger
	if mctx != nil {
		logger = mctx.Logger
	}
	return NormalizeDateTime(incoming, logger)
}

// DateTimePolicy builds the field policy for an ambiguous date-time field.
func DateTimePolicy() cache.FieldPolicy {
	return cache.FieldPolicy{Merge: MergeDateTime}
}
