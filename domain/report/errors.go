package report

import (
	"context"
	"errors"

	"edadash/domain/core"
)

// GenerationError reports a backend failure as ErrReportGenerationFailed.
// Cancellation and already-classified domain errors pass through unchanged.
func GenerationError(b Backend, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if core.IsReportGenerationFailed(err) || core.IsResourceUnavailable(err) {
		return err
	}
	return core.NewReportGenerationError(string(b), err)
}
