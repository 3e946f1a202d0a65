package adaptrank

import "github.com/kailas-cloud/adaptrank/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation             = domain.ErrValidation
	ErrDocumentNotFound       = domain.ErrDocumentNotFound
	ErrRetrievalUnavailable   = domain.ErrRetrievalUnavailable
	ErrFeedbackUnavailable    = domain.ErrFeedbackUnavailable
	ErrUnknownStrategy        = domain.ErrUnknownStrategy
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
