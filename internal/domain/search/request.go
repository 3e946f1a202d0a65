package search

import (
	"fmt"

	"github.com/kailas-cloud/adaptrank/internal/domain"
	"github.com/kailas-cloud/adaptrank/internal/domain/rank"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 10
	MaxLimit       = 100
)

// Request is a validated search query.
//
// An unknown strategy is deliberately not a validation failure: the
// reranker falls back to unboosted similarity for it, so the request
// carries the tag as submitted.
type Request struct {
	query    string
	limit    int
	strategy rank.Strategy
}

// NewRequest validates and normalizes search parameters.
// Defaults: limit=10, strategy=log. An explicit non-positive limit is
// rejected before any store work happens.
func NewRequest(query string, limit int, strategy rank.Strategy) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrValidation, MaxQueryLength)
	}
	if limit <= 0 {
		return Request{}, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrValidation, limit)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if strategy == "" {
		strategy = rank.Log
	}

	return Request{query: query, limit: limit, strategy: strategy}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }

// Strategy returns the requested boost strategy tag.
func (r *Request) Strategy() rank.Strategy { return r.strategy }
