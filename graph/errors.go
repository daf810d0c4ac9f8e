package graph

import "errors"

// ErrConfig indicates invalid or contradictory builder configuration.
// Wrapped errors carry the specific violation.
var ErrConfig = errors.New("invalid annotation graph configuration")
