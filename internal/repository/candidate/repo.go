// Package candidate retrieves KNN candidates from the vector index.
package candidate

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/adaptrank/internal/db"
	"github.com/kailas-cloud/adaptrank/internal/domain"
	domsearch "github.com/kailas-cloud/adaptrank/internal/domain/search"
	"github.com/kailas-cloud/adaptrank/internal/repository/document"
)

// store is the consumer interface for KNN retrieval (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.Retriever.
type Repo struct {
	store store
}

// New creates a candidate retriever.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Retrieve runs a KNN query for the top K nearest documents and returns
// them as rerank candidates in index order. A failed retrieval is fatal
// for the request and is wrapped accordingly.
func (r *Repo) Retrieve(ctx context.Context, vector []float32, k int) ([]domsearch.Candidate, error) {
	q := &db.KNNQuery{
		IndexName:    document.IndexName(),
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"__content", "__category", "__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: knn search: %w", domain.ErrRetrievalUnavailable, err)
	}

	return parseCandidates(sr), nil
}

// parseCandidates converts db.SearchResult entries into candidates,
// preserving retrieval order.
func parseCandidates(sr *db.SearchResult) []domsearch.Candidate {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	prefix := domain.KeyPrefix + "doc:"
	out := make([]domsearch.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		out = append(out, domsearch.Candidate{
			DocumentID: strings.TrimPrefix(entry.Key, prefix),
			Content:    entry.Fields["__content"],
			Category:   entry.Fields["__category"],
			Similarity: entry.Score,
		})
	}
	return out
}
