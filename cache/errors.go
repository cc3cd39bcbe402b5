package cache

import (
	"errors"
	"fmt"
)

// Sentinel errors for cache operations.
var (
	// ErrUnresolvedType reports a payload whose concrete type could not be
	// determined from the possible-types mapping.
	ErrUnresolvedType = errors.New("cache: cannot resolve concrete type")

	// ErrMissingIdentifier reports a payload that lacks the identifier field
	// its type policy requires.
	ErrMissingIdentifier = errors.New("cache: payload has no identifier field")

	// ErrUnknownType reports an abstract type name that has no entry in the
	// possible-types mapping.
	ErrUnknownType = errors.New("cache: unknown abstract type")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// FieldError scopes a write failure to a single field of a single type.
// A FieldError never aborts the merge of sibling fields; callers find it in
// the WriteResult of the operation that produced it.
type FieldError struct {
	TypeName string
	Field    string
	Err      error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("cache: field %s.%s: %v", e.TypeName, e.Field, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// WriteResult reports the outcome of normalizing one object payload.
type WriteResult struct {
	// EntityKey is the record key the payload normalized under.
	EntityKey string

	// FieldErrors collects the field-scoped failures encountered while
	// normalizing. Fields listed here were left unset or unnormalized;
	// every other field of the payload was stored.
	FieldErrors []*FieldError
}

// OK reports whether the write completed without field-scoped failures.
func (r WriteResult) OK() bool {
	return len(r.FieldErrors) == 0
}

// joinFieldErrors flattens field-scoped failures into a single error value.
// Returns nil when there were none.
func joinFieldErrors(fieldErrs []*FieldError) error {
	if len(fieldErrs) == 0 {
		return nil
	}
	errs := make([]error, len(fieldErrs))
	for i, fe := range fieldErrs {
		errs[i] = fe
	}
	return errors.Join(errs...)
}
