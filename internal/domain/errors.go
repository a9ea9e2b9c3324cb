package domain

import "errors"

var (
	// ErrInvalidEntity signals an entity record that fails validation.
	ErrInvalidEntity = errors.New("invalid entity")
	// ErrUnknownKind signals an entity kind outside firm/startup/community.
	ErrUnknownKind = errors.New("unknown entity kind")
	// ErrUpstreamUnavailable signals that an entity source could not be read.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrCircuitOpen signals that an entity source is short-circuited after repeated failures.
	ErrCircuitOpen = errors.New("upstream circuit open")
)

// UpstreamError wraps a failed entity-list fetch with the kind that failed.
type UpstreamError struct {
	Kind string
	Err  error
}

func (e *UpstreamError) Error() string {
	return ErrUpstreamUnavailable.Error() + ": list " + e.Kind + ": " + e.Err.Error()
}

// Unwrap exposes both the sentinel and the cause to errors.Is/As.
func (e *UpstreamError) Unwrap() []error { return []error{ErrUpstreamUnavailable, e.Err} }

// NewUpstreamError wraps err as a failed fetch of kind.
func NewUpstreamError(kind string, err error) error {
	return &UpstreamError{Kind: kind, Err: err}
}
