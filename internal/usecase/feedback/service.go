// Package feedback records relevance feedback against stored documents.
package feedback

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/adaptrank/internal/domain"
	domfb "github.com/kailas-cloud/adaptrank/internal/domain/feedback"
	"github.com/kailas-cloud/adaptrank/internal/metrics"
)

// Service validates and records feedback events.
type Service struct {
	log  Log
	docs DocumentChecker
}

// New creates a feedback service.
func New(log Log, docs DocumentChecker) *Service {
	return &Service{log: log, docs: docs}
}

// Record appends one feedback event. The referenced document must exist;
// nothing is written for unknown IDs.
func (s *Service) Record(ctx context.Context, documentID, queryText string, delta int64) (domfb.Event, error) {
	ev, err := domfb.New(documentID, queryText, delta)
	if err != nil {
		return domfb.Event{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	exists, err := s.docs.Exists(ctx, documentID)
	if err != nil {
		return domfb.Event{}, fmt.Errorf("check document %s: %w", documentID, err)
	}
	if !exists {
		return domfb.Event{}, domain.ErrDocumentNotFound
	}

	if err := s.log.Append(ctx, &ev); err != nil {
		return domfb.Event{}, fmt.Errorf("append feedback: %w", err)
	}

	metrics.FeedbackEventsTotal.Inc()
	return ev, nil
}
