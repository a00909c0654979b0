package types

import "errors"

// Common errors shared across retrieval providers.
var (
	// ErrDimensionMismatch indicates a strict similarity comparison was
	// attempted on vectors of different lengths. Programmer error.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmbedTimeout indicates the embedding backend did not respond
	// within the configured latency budget.
	ErrEmbedTimeout = errors.New("embedding timed out")

	// ErrPluginFailed indicates the remote plugin endpoint failed with a
	// transient error on every attempt. Distinguishes "tried and failed"
	// from "not configured".
	ErrPluginFailed = errors.New("plugin search failed")
)
