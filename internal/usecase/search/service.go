// Package search implements the retrieve-aggregate-boost-rerank pipeline.
package search

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/adaptrank/internal/domain"
	"github.com/kailas-cloud/adaptrank/internal/domain/rank"
	domsearch "github.com/kailas-cloud/adaptrank/internal/domain/search"
	"github.com/kailas-cloud/adaptrank/internal/logger"
	"github.com/kailas-cloud/adaptrank/internal/metrics"
)

// Default oversampling bounds. Retrieval always pulls a wider candidate
// window than the requested page so that feedback can promote documents
// sitting just below the cut.
const (
	OversampleFloor  = 50
	OversampleFactor = 2
)

// Service handles adaptive search: KNN retrieval followed by
// feedback-weighted reranking.
type Service struct {
	retriever        Retriever
	feedback         FeedbackReader
	embed            Embedder
	params           rank.Params
	oversampleFloor  int
	oversampleFactor int
}

// New creates a search service.
func New(retriever Retriever, feedback FeedbackReader, embed Embedder, params rank.Params) *Service {
	return &Service{
		retriever:        retriever,
		feedback:         feedback,
		embed:            embed,
		params:           params,
		oversampleFloor:  OversampleFloor,
		oversampleFactor: OversampleFactor,
	}
}

// WithOversampling overrides the candidate window bounds. Non-positive
// values keep the defaults.
func (s *Service) WithOversampling(floor, factor int) *Service {
	if floor > 0 {
		s.oversampleFloor = floor
	}
	if factor > 0 {
		s.oversampleFactor = factor
	}
	return s
}

// Search executes one adaptive search request. Ties on adjusted score
// keep their retrieval order. A feedback aggregation failure degrades the
// request to pure similarity ordering instead of failing it.
func (s *Service) Search(ctx context.Context, req *domsearch.Request) ([]domsearch.Candidate, error) {
	embResult, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	k := req.Limit() * s.oversampleFactor
	if k < s.oversampleFloor {
		k = s.oversampleFloor
	}

	candidates, err := s.retriever.Retrieve(ctx, embResult.Embedding, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve candidates: %w", err)
	}
	if len(candidates) == 0 {
		return []domsearch.Candidate{}, nil
	}

	totals := s.aggregateFeedback(ctx, candidates)

	strategy := req.Strategy()
	if !strategy.IsValid() {
		logger.FromContext(ctx).Warn("Unknown boost strategy, scoring without boost",
			zap.String("strategy", string(strategy)),
			zap.Error(domain.ErrUnknownStrategy))
	}

	for i := range candidates {
		candidates[i].FeedbackTotal = totals[candidates[i].DocumentID]
		candidates[i].AdjustedScore = strategy.Boost(s.params, candidates[i].Similarity, candidates[i].FeedbackTotal)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AdjustedScore > candidates[j].AdjustedScore
	})

	if len(candidates) > req.Limit() {
		candidates = candidates[:req.Limit()]
	}

	return candidates, nil
}

// aggregateFeedback recomputes totals for the candidate set. On failure
// it returns an empty map so that scoring proceeds with zero feedback.
func (s *Service) aggregateFeedback(ctx context.Context, candidates []domsearch.Candidate) map[string]int64 {
	ids := make([]string, len(candidates))
	for i := range candidates {
		ids[i] = candidates[i].DocumentID
	}

	totals, err := s.feedback.TotalsByDocument(ctx, ids)
	if err != nil {
		metrics.FeedbackDegradedTotal.Inc()
		logger.FromContext(ctx).Warn("Feedback aggregation failed, serving unboosted results",
			zap.Int("candidates", len(ids)),
			zap.Error(err))
		return map[string]int64{}
	}
	return totals
}
