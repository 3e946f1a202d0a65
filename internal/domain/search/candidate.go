// Package search holds the request and candidate records of the
// retrieval-and-rerank flow.
package search

// Candidate is a request-scoped document hit moving through the rerank
// pipeline. It is born from one retrieval call with only the similarity
// set; aggregation and scoring fill in the rest. Never persisted.
type Candidate struct {
	DocumentID string
	Content    string
	Category   string
	// Similarity is 1 - cosine distance, clamped to [0, 1] at the
	// store boundary.
	Similarity float64
	// FeedbackTotal is the signed sum of all recorded deltas for the
	// document. May be negative; boosting clamps it, ranking reports it
	// as stored.
	FeedbackTotal int64
	// AdjustedScore is the final ranking score after boosting.
	AdjustedScore float64
}
