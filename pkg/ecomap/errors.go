package ecomap

import "github.com/houston-ecosystem/ecomap/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrUpstreamUnavailable = domain.ErrUpstreamUnavailable
	ErrCircuitOpen         = domain.ErrCircuitOpen
	ErrUnknownKind         = domain.ErrUnknownKind
)
