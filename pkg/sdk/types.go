package adaptrank

import "time"

// Document is a stored document as seen by the client.
type Document struct {
	ID        string
	Content   string
	Category  string
	CreatedAt time.Time
}

// SearchResult is a single ranked hit.
type SearchResult struct {
	ID            string
	Content       string
	Category      string
	Score         float64
	OriginalScore float64
	FeedbackScore int64
}

// BatchResult is the outcome of a bulk ingest call.
type BatchResult struct {
	Created int
	Updated int
	Errors  map[string]string
}

// ListResult is a paginated list of documents.
type ListResult struct {
	Documents  []Document
	NextCursor string
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // component -> "ok"/"error"
}
