package cache

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	// Hit records a field read that found a stored value.
	Hit()
	// Miss records a field read that found nothing.
	Miss()
	// Write records a stored field value (merged or replaced).
	Write()
	// FieldError records a field-scoped failure by reason
	// ("key", "merge", "resolve", "identify").
	FieldError(reason string)
	// Size reports the current number of normalized records.
	Size(entities int)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
// It is safe for concurrent use and intended as the default when no
// observability backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Hit()               {}
func (NoopMetrics) Miss()              {}
func (NoopMetrics) Write()             {}
func (NoopMetrics) FieldError(string)  {}
func (NoopMetrics) Size(entities int)  {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}
