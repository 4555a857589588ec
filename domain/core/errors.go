package core

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by report generation. Adapters wrap these and the shell
// decides how to present them.
var (
	// ErrInvalidInput means uploaded data could not be parsed into a table,
	// or a request is structurally incomplete.
	ErrInvalidInput = errors.New("invalid input")

	// ErrResourceUnavailable means no local port could be obtained or bound.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrReportGenerationFailed means the analysis backend failed while
	// producing a report.
	ErrReportGenerationFailed = errors.New("report generation failed")

	ErrNotFound = errors.New("resource not found")
)

// NewInvalidInputError wraps a parse or request problem.
func NewInvalidInputError(reason string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalidInput, reason, cause)
}

// NewResourceUnavailableError wraps a socket or bind failure.
func NewResourceUnavailableError(resource string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrResourceUnavailable, resource)
	}
	return fmt.Errorf("%w: %s: %v", ErrResourceUnavailable, resource, cause)
}

// NewReportGenerationError wraps a backend failure. The backend message is kept
// verbatim so the shell can show it.
func NewReportGenerationError(backend string, cause error) error {
	return fmt.Errorf("%w (%s): %v", ErrReportGenerationFailed, backend, cause)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsResourceUnavailable(err error) bool {
	return errors.Is(err, ErrResourceUnavailable)
}

func IsReportGenerationFailed(err error) bool {
	return errors.Is(err, ErrReportGenerationFailed)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
