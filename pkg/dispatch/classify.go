package dispatch

import (
	"errors"

	"github.com/cuemby/venice-admin-consumer/pkg/backend"
)

// Outcome is the bucket a handler's error falls into (spec.md §7).
// Duplicate and Malformed are decided earlier, by the worker and tailer
// respectively — they never reach Classify.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRetriable
	OutcomeIgnorable
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetriable:
		return "retriable"
	case OutcomeIgnorable:
		return "ignorable"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Classify buckets a handler's returned error. nil classifies as Success.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	if errors.Is(err, backend.ErrUnsupportedOperation) {
		return OutcomeIgnorable
	}
	var retriable *backend.Retriable
	if errors.As(err, &retriable) {
		return OutcomeRetriable
	}
	return OutcomeFatal
}
