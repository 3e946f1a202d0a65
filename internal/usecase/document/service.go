// Package document handles document CRUD with automatic vectorization.
package document

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/adaptrank/internal/domain"
	domdoc "github.com/kailas-cloud/adaptrank/internal/domain/document"
)

// Service handles document CRUD with automatic vectorization.
type Service struct {
	repo            Repository
	embed           Embedder
	defaultPageSize int
	maxPageSize     int
}

// New creates a document service.
func New(repo Repository, embed Embedder) *Service {
	return &Service{
		repo:            repo,
		embed:           embed,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Upsert creates or updates a document with automatic vectorization.
// Returns true if the document was created, false if updated.
func (s *Service) Upsert(ctx context.Context, id, content, category string) (bool, error) {
	doc, err := domdoc.New(id, content, category)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	result, err := s.embed.Embed(ctx, doc.Content())
	if err != nil {
		return false, fmt.Errorf("vectorize document: %w", err)
	}

	vectorized := doc.WithVector(result.Embedding)
	created, err := s.repo.Upsert(ctx, &vectorized)
	if err != nil {
		return false, fmt.Errorf("upsert document: %w", err)
	}

	return created, nil
}

// BatchItem is one document in a bulk upsert.
type BatchItem struct {
	ID       string
	Content  string
	Category string
}

// BatchResult reports per-item outcomes of a bulk upsert.
type BatchResult struct {
	Created int
	Updated int
	Errors  map[string]string
}

// BatchUpsert loads many documents in one call. Items fail
// independently: a bad or unembeddable item is reported in Errors and
// the rest of the batch proceeds.
func (s *Service) BatchUpsert(ctx context.Context, items []BatchItem) (BatchResult, error) {
	res := BatchResult{Errors: map[string]string{}}

	for _, item := range items {
		created, err := s.Upsert(ctx, item.ID, item.Content, item.Category)
		if err != nil {
			key := item.ID
			if key == "" {
				key = "(missing id)"
			}
			res.Errors[key] = err.Error()
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	return res, nil
}

// Get retrieves a document by ID.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// List returns a paginated list of documents.
func (s *Service) List(ctx context.Context, cursor string, limit int) ([]domdoc.Document, string, error) {
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	docs, nextCursor, err := s.repo.List(ctx, cursor, limit)
	if err != nil {
		return nil, "", fmt.Errorf("list documents: %w", err)
	}
	return docs, nextCursor, nil
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *Service) Count(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}
