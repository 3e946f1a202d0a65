package domain

import "errors"

var (
	// ErrValidation signals a malformed request rejected before any store access.
	ErrValidation = errors.New("validation failed")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrRetrievalUnavailable signals that the vector store could not serve the request.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrFeedbackUnavailable signals that feedback aggregation failed.
	// The reranker recovers from it by scoring with zero feedback.
	ErrFeedbackUnavailable = errors.New("feedback unavailable")
	// ErrUnknownStrategy signals an unrecognized boost strategy name.
	// Never fatal: scoring falls back to unboosted similarity.
	ErrUnknownStrategy = errors.New("unknown boost strategy")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
