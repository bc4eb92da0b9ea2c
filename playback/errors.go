package playback

import (
	"errors"
	"fmt"
)

// ErrNoDocument is returned by operations that need a loaded document.
var ErrNoDocument = errors.New("no document loaded")

// NarrationError is a narration failure for a specific sentence. It is not
// fatal: the controller stops and Play may be retried.
type NarrationError struct {
	Handle Handle
	Index  int
	Err    error
}

// Error implements the error interface.
func (e *NarrationError) Error() string {
	return fmt.Sprintf("narration of sentence %d failed: %v", e.Index+1, e.Err)
}

// Unwrap returns the underlying error.
func (e *NarrationError) Unwrap() error {
	return e.Err
}

// InvalidPolicyError reports an unknown end-of-document policy.
type InvalidPolicyError struct {
	Value string
}

func (e *InvalidPolicyError) Error() string {
	return fmt.Sprintf("invalid end-of-document policy %q: use loop or stop", e.Value)
}

// InvalidEstimatorError reports an unknown timeline estimator.
type InvalidEstimatorError struct {
	Value string
}

func (e *InvalidEstimatorError) Error() string {
	return fmt.Sprintf("invalid timeline estimator %q: use sentence or words", e.Value)
}

// ErrInvalidRate is returned when a narration rate is not positive.
var ErrInvalidRate = errors.New("narration rate must be positive")
