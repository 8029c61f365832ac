package domain

import (
	"errors"
	"fmt"
)

// ErrAuditDisabled reports that the prediction audit trail is switched off
// by configuration, so recent-prediction queries cannot be served.
var ErrAuditDisabled = errors.New("audit trail disabled")

// ErrMissingFeatures reports a prediction request without a features key.
// The message is surfaced to callers verbatim.
var ErrMissingFeatures = errors.New("Features array is required")

// ValidationKind discriminates the ways a feature vector can violate the
// input contract.
type ValidationKind string

const (
	ValidationType   ValidationKind = "type"
	ValidationLength ValidationKind = "length"
	ValidationRange  ValidationKind = "range"
)

// ValidationError reports a prediction request whose feature vector failed
// the input contract. Reason is safe to surface to callers verbatim.
type ValidationError struct {
	Kind   ValidationKind
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// VersionNotLoadedError reports a model version that is not present in the
// registry, either because it was never loaded or because its load failed.
type VersionNotLoadedError struct {
	Version string
}

func (e *VersionNotLoadedError) Error() string {
	return fmt.Sprintf("model version %s not loaded", e.Version)
}

// LoadError reports a failed artifact load (missing file, corrupt data, or
// an invalid model definition). The registry is left unchanged when a load
// fails.
type LoadError struct {
	Version string
	Path    string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load model version %s from %s: %v", e.Version, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ExecutionError reports a failure inside an artifact's Classify call, such
// as a feature-shape mismatch the validator could not see or an internal
// numeric error. The cause is kept for server-side logging; callers receive
// a generic message.
type ExecutionError struct {
	Version string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("prediction failed on model version %s: %v", e.Version, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
