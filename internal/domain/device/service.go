package device

import "context"

// Service ingests raw clock events from attendance hardware.
type Service interface {
	// ProcessEvents folds a batch of reader events into the attendance
	// system. It never fails on bad records; each is counted in the
	// returned summary instead.
	ProcessEvents(ctx context.Context, req *EventBatchRequest) (*IngestSummary, error)
}
