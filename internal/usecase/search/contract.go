package search

import (
	"context"

	"github.com/kailas-cloud/adaptrank/internal/domain"
	domsearch "github.com/kailas-cloud/adaptrank/internal/domain/search"
)

// Retriever fetches KNN candidates from the vector index.
type Retriever interface {
	Retrieve(ctx context.Context, vector []float32, k int) ([]domsearch.Candidate, error)
}

// FeedbackReader aggregates feedback totals for a set of document IDs.
type FeedbackReader interface {
	TotalsByDocument(ctx context.Context, ids []string) (map[string]int64, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
