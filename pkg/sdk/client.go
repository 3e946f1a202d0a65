package adaptrank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/adaptrank/internal/db"
	dbRedis "github.com/kailas-cloud/adaptrank/internal/db/redis"
	"github.com/kailas-cloud/adaptrank/internal/domain"
	domdoc "github.com/kailas-cloud/adaptrank/internal/domain/document"
	domfb "github.com/kailas-cloud/adaptrank/internal/domain/feedback"
	"github.com/kailas-cloud/adaptrank/internal/domain/rank"
	domsearch "github.com/kailas-cloud/adaptrank/internal/domain/search"
	"github.com/kailas-cloud/adaptrank/internal/metrics"
	candidaterepo "github.com/kailas-cloud/adaptrank/internal/repository/candidate"
	documentrepo "github.com/kailas-cloud/adaptrank/internal/repository/document"
	"github.com/kailas-cloud/adaptrank/internal/repository/embcache"
	feedbackrepo "github.com/kailas-cloud/adaptrank/internal/repository/feedback"
	documentuc "github.com/kailas-cloud/adaptrank/internal/usecase/document"
	feedbackuc "github.com/kailas-cloud/adaptrank/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/adaptrank/internal/usecase/health"
	searchuc "github.com/kailas-cloud/adaptrank/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the services.
type searchUseCase interface {
	Search(ctx context.Context, req *domsearch.Request) ([]domsearch.Candidate, error)
}

type feedbackUseCase interface {
	Record(ctx context.Context, documentID, queryText string, delta int64) (domfb.Event, error)
}

type documentUseCase interface {
	Upsert(ctx context.Context, id, content, category string) (bool, error)
	BatchUpsert(ctx context.Context, items []documentuc.BatchItem) (documentuc.BatchResult, error)
	Get(ctx context.Context, id string) (domdoc.Document, error)
	List(ctx context.Context, cursor string, limit int) ([]domdoc.Document, string, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the adaptrank SDK entry point.
type Client struct {
	store       db.Store
	searchSvc   searchUseCase
	feedbackSvc feedbackUseCase
	docSvc      documentUseCase
	healthSvc   healthUseCase
	obs         *observer
}

// New creates an adaptrank Client, connects to the database and ensures
// the vector index exists. The provided context bounds the initial
// readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		vectorDimensions: domain.DefaultVectorConfig().Dimensions,
		embeddingModel:   domain.DefaultVectorConfig().Model,
		rankParams:       rank.DefaultParams(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("adaptrank: database address required (use WithRedis)")
	}
	if cfg.embedder == nil {
		return nil, errors.New("adaptrank: embedder required (use WithEmbedder)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("adaptrank: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("adaptrank: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	client, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return client, nil
}

func wireClient(ctx context.Context, store *dbRedis.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	docRepo := documentrepo.New(store, cfg.vectorDimensions)
	if cfg.hnswM > 0 || cfg.hnswEFConstruct > 0 {
		docRepo = docRepo.WithHNSW(documentrepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEFConstruct,
		})
	}
	if err := docRepo.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("adaptrank: ensure index: %w", err)
	}
	candidateRepo := candidaterepo.New(store)
	feedbackRepo := feedbackrepo.New(store)

	embedder := embcache.New(
		&embedderAdapter{inner: cfg.embedder},
		store, cfg.embeddingModel, cfg.cacheTTL, metrics.EmbeddingCacheTotal, zap.NewNop(),
	)

	return &Client{
		store:       store,
		searchSvc:   searchuc.New(candidateRepo, feedbackRepo, embedder, cfg.rankParams),
		feedbackSvc: feedbackuc.New(feedbackRepo, docRepo),
		docSvc:      documentuc.New(docRepo, embedder),
		healthSvc: healthuc.New(
			store, docRepo, documentrepo.IndexName(), nil,
		),
		obs: obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs the retrieval-and-rerank pipeline for a query.
// strategy is one of "log", "linear", "sigmoid"; empty uses the default.
func (c *Client) Search(ctx context.Context, query string, limit int, strategy string) (_ []SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	req, err := domsearch.NewRequest(query, limit, rank.Strategy(strategy))
	if err != nil {
		return nil, err
	}

	candidates, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, len(candidates))
	for i, cand := range candidates {
		results[i] = SearchResult{
			ID:            cand.DocumentID,
			Content:       cand.Content,
			Category:      cand.Category,
			Score:         cand.AdjustedScore,
			OriginalScore: cand.Similarity,
			FeedbackScore: cand.FeedbackTotal,
		}
	}
	return results, nil
}

// Feedback records one relevance feedback event for a document.
func (c *Client) Feedback(ctx context.Context, documentID, query string, delta int64) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("feedback", start, err) }()

	_, err = c.feedbackSvc.Record(ctx, documentID, query, delta)
	return err
}

// AddDocument embeds and stores a document. Returns true if created,
// false if an existing document was replaced.
func (c *Client) AddDocument(ctx context.Context, id, content, category string) (created bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("add_document", start, err) }()

	return c.docSvc.Upsert(ctx, id, content, category)
}

// BatchUpsert embeds and stores multiple documents in one call.
// Per-document failures are reported in the result, not as an error.
func (c *Client) BatchUpsert(ctx context.Context, docs []Document) (_ BatchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("batch_upsert", start, err) }()

	items := make([]documentuc.BatchItem, len(docs))
	for i, d := range docs {
		items[i] = documentuc.BatchItem{ID: d.ID, Content: d.Content, Category: d.Category}
	}

	res, err := c.docSvc.BatchUpsert(ctx, items)
	if err != nil {
		return BatchResult{}, err
	}
	return BatchResult{Created: res.Created, Updated: res.Updated, Errors: res.Errors}, nil
}

// GetDocument fetches a stored document by id.
func (c *Client) GetDocument(ctx context.Context, id string) (_ Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get_document", start, err) }()

	doc, err := c.docSvc.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	return toDocument(&doc), nil
}

// DeleteDocument removes a stored document by id.
func (c *Client) DeleteDocument(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete_document", start, err) }()

	return c.docSvc.Delete(ctx, id)
}

// ListDocuments returns a page of documents starting at cursor.
func (c *Client) ListDocuments(ctx context.Context, cursor string, limit int) (_ ListResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list_documents", start, err) }()

	docs, next, err := c.docSvc.List(ctx, cursor, limit)
	if err != nil {
		return ListResult{}, err
	}

	out := make([]Document, len(docs))
	for i := range docs {
		out[i] = toDocument(&docs[i])
	}
	return ListResult{Documents: out, NextCursor: next}, nil
}

// CountDocuments returns the total number of stored documents.
func (c *Client) CountDocuments(ctx context.Context) (_ int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("count_documents", start, err) }()

	return c.docSvc.Count(ctx)
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

func toDocument(doc *domdoc.Document) Document {
	return Document{
		ID:        doc.ID(),
		Content:   doc.Content(),
		Category:  doc.Category(),
		CreatedAt: doc.CreatedAt(),
	}
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
