package ports

import (
	"context"

	"edadash/domain/report"
)

// ReportAdapter turns a request into an artifact. Implementations wrap one
// report backend each and hold no state between calls.
type ReportAdapter interface {
	Backend() report.Backend
	Generate(ctx context.Context, req *report.Request) (*report.Artifact, error)
}
