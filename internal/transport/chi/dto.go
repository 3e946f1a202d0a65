package chi

// ErrorCode is the machine-readable error tag in error responses.
type ErrorCode string

// Error response codes.
const (
	CodeBadRequest             ErrorCode = "bad_request"
	CodeUnauthorized           ErrorCode = "unauthorized"
	CodeValidationFailed       ErrorCode = "validation_failed"
	CodeDocumentNotFound       ErrorCode = "document_not_found"
	CodeRetrievalUnavailable   ErrorCode = "retrieval_unavailable"
	CodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	CodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query    string  `json:"query"`
	Limit    *int    `json:"limit,omitempty"`
	Strategy *string `json:"strategy,omitempty"`
}

// SearchResultItem is one ranked document in a search response.
type SearchResultItem struct {
	ID            string  `json:"id"`
	Content       string  `json:"content"`
	Category      string  `json:"category,omitempty"`
	Score         float64 `json:"score"`
	OriginalScore float64 `json:"original_score"`
	FeedbackScore int64   `json:"feedback_score"`
}

// SearchResponse is the body returned by POST /api/v1/search.
type SearchResponse struct {
	Query           string             `json:"query"`
	Strategy        string             `json:"strategy"`
	Results         []SearchResultItem `json:"results"`
	Total           int                `json:"total"`
	ExecutionTimeMs float64            `json:"execution_time_ms"`
}

// FeedbackRequest is the body of POST /api/v1/feedback.
type FeedbackRequest struct {
	DocumentID string `json:"document_id"`
	Query      string `json:"query,omitempty"`
	ScoreDelta *int64 `json:"score_delta,omitempty"`
}

// FeedbackResponse acknowledges a recorded feedback event.
type FeedbackResponse struct {
	Status        string `json:"status"`
	DocumentID    string `json:"document_id"`
	NewScoreDelta int64  `json:"new_score_delta"`
}

// UpsertDocumentRequest is the body of PUT /api/v1/documents/{id}.
type UpsertDocumentRequest struct {
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`
}

// DocumentResponse is the wire shape of a stored document.
type DocumentResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Category  string `json:"category,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DocumentListResponse is a cursor-paginated document page.
type DocumentListResponse struct {
	Items      []DocumentResponse `json:"items"`
	Total      int                `json:"total"`
	HasMore    bool               `json:"has_more"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

// BatchUpsertItem is one document in a bulk ingest request.
type BatchUpsertItem struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`
}

// BatchUpsertRequest is the body of POST /api/v1/documents/batch.
type BatchUpsertRequest struct {
	Documents []BatchUpsertItem `json:"documents"`
}

// BatchUpsertResponse reports bulk ingest outcomes.
type BatchUpsertResponse struct {
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Failed  int               `json:"failed"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
