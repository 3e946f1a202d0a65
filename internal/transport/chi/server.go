// Package chi exposes the HTTP API.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/adaptrank/internal/domain"
	domdoc "github.com/kailas-cloud/adaptrank/internal/domain/document"
	"github.com/kailas-cloud/adaptrank/internal/domain/rank"
	domsearch "github.com/kailas-cloud/adaptrank/internal/domain/search"
	"github.com/kailas-cloud/adaptrank/internal/metrics"
	documentuc "github.com/kailas-cloud/adaptrank/internal/usecase/document"
	feedbackuc "github.com/kailas-cloud/adaptrank/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/adaptrank/internal/usecase/health"
	searchuc "github.com/kailas-cloud/adaptrank/internal/usecase/search"
)

const (
	maxBatchSize      = 100
	defaultScoreDelta = 1
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the usecase services into HTTP handlers.
type Server struct {
	search          *searchuc.Service
	feedback        *feedbackuc.Service
	documents       *documentuc.Service
	health          *healthuc.Service
	logger          *zap.Logger
	defaultStrategy rank.Strategy
	errorHandlers   []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	feedback *feedbackuc.Service,
	documents *documentuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:          search,
		feedback:        feedback,
		documents:       documents,
		health:          health,
		logger:          logger,
		defaultStrategy: rank.Log,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, CodeDocumentNotFound),
		sentinelHandler(domain.ErrRetrievalUnavailable, http.StatusServiceUnavailable, CodeRetrievalUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProviderError),
	}
	return s
}

// WithDefaultStrategy sets the boost strategy applied when a search
// request omits one. Unknown values keep the built-in default.
func (s *Server) WithDefaultStrategy(strategy rank.Strategy) *Server {
	if strategy.IsValid() {
		s.defaultStrategy = strategy
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.SearchDocuments)
		r.Post("/feedback", s.SubmitFeedback)
		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.ListDocuments)
			r.Post("/batch", s.BatchUpsert)
			r.Put("/{id}", s.UpsertDocument)
			r.Get("/{id}", s.GetDocument)
			r.Delete("/{id}", s.DeleteDocument)
		})
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchDocuments handles POST /api/v1/search.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	limit := domsearch.DefaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	strategy := s.defaultStrategy
	if req.Strategy != nil && *req.Strategy != "" {
		strategy = rank.Strategy(*req.Strategy)
	}

	searchReq, err := domsearch.NewRequest(req.Query, limit, strategy)
	if err != nil {
		s.handleDomainError(r, w, err)
		return
	}

	start := time.Now()
	results, err := s.search.Search(r.Context(), &searchReq)
	elapsed := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(string(searchReq.Strategy()), status).Inc()

	if err != nil {
		s.handleDomainError(r, w, err)
		return
	}

	metrics.RerankDuration.WithLabelValues(string(searchReq.Strategy())).Observe(elapsed.Seconds())

	items := make([]SearchResultItem, len(results))
	for i := range results {
		items[i] = searchResultItem(&results[i])
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:           searchReq.Query(),
		Strategy:        string(searchReq.Strategy()),
		Results:         items,
		Total:           len(items),
		ExecutionTimeMs: float64(elapsed.Microseconds()) / 1000.0,
	})
}

// SubmitFeedback handles POST /api/v1/feedback.
func (s *Server) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	delta := int64(defaultScoreDelta)
	if req.ScoreDelta != nil {
		delta = *req.ScoreDelta
	}

	ev, err := s.feedback.Record(r.Context(), req.DocumentID, req.Query, delta)
	if err != nil {
		s.handleDomainError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, FeedbackResponse{
		Status:        "ok",
		DocumentID:    ev.DocumentID(),
		NewScoreDelta: ev.Delta(),
	})
}

// UpsertDocument handles PUT /api/v1/documents/{id}.
func (s *Server) UpsertDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpsertDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := s.documents.Upsert(r.Context(), id, req.Content, req.Category)
	if err != nil {
		s.handleDomainError(r, w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/api/v1/documents/%s", id))
	}

	writeJSON(w, status, DocumentResponse{
		ID:       id,
		Content:  req.Content,
		Category: req.Category,
	})
}

// GetDocument handles GET /api/v1/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := s.documents.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentResponse(&doc))
}

// DeleteDocument handles DELETE /api/v1/documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.documents.Delete(r.Context(), id); err != nil {
		s.handleDomainError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListDocuments handles GET /api/v1/documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "limit must be an integer")
			return
		}
		limit = parsed
	}

	docs, nextCursor, err := s.documents.List(r.Context(), cursor, limit)
	if err != nil {
		s.handleDomainError(r, w, err)
		return
	}

	total, err := s.documents.Count(r.Context())
	if err != nil {
		s.logger.Warn("count documents failed, falling back to page size", zap.Error(err))
		total = len(docs)
	}

	items := make([]DocumentResponse, len(docs))
	for i := range docs {
		items[i] = documentResponse(&docs[i])
	}

	writeJSON(w, http.StatusOK, DocumentListResponse{
		Items:      items,
		Total:      total,
		HasMore:    nextCursor != "",
		NextCursor: nextCursor,
	})
}

// BatchUpsert handles POST /api/v1/documents/batch.
func (s *Server) BatchUpsert(w http.ResponseWriter, r *http.Request) {
	var req BatchUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Documents) == 0 || len(req.Documents) > maxBatchSize {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("documents count must be between 1 and %d", maxBatchSize))
		return
	}

	items := make([]documentuc.BatchItem, len(req.Documents))
	for i, d := range req.Documents {
		items[i] = documentuc.BatchItem{ID: d.ID, Content: d.Content, Category: d.Category}
	}

	res, err := s.documents.BatchUpsert(r.Context(), items)
	if err != nil {
		s.handleDomainError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, BatchUpsertResponse{
		Created: res.Created,
		Updated: res.Updated,
		Failed:  len(res.Errors),
		Errors:  res.Errors,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrDocumentNotFound,
		domain.ErrRetrievalUnavailable,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(r *http.Request, w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.String("path", r.URL.Path), zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func searchResultItem(c *domsearch.Candidate) SearchResultItem {
	return SearchResultItem{
		ID:            c.DocumentID,
		Content:       c.Content,
		Category:      c.Category,
		Score:         c.AdjustedScore,
		OriginalScore: c.Similarity,
		FeedbackScore: c.FeedbackTotal,
	}
}

func documentResponse(doc *domdoc.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:       doc.ID(),
		Content:  doc.Content(),
		Category: doc.Category(),
	}
	if !doc.CreatedAt().IsZero() {
		resp.CreatedAt = doc.CreatedAt().UTC().Format(time.RFC3339)
	}
	return resp
}
