package feedback

import (
	"context"

	domfb "github.com/kailas-cloud/adaptrank/internal/domain/feedback"
)

// Log is the append-only event sink.
type Log interface {
	Append(ctx context.Context, ev *domfb.Event) error
}

// DocumentChecker verifies document existence before recording.
type DocumentChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}
