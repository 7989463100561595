package app

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")

	// ErrEmptyContent marks a document with no extractable text; the
	// pipeline must not proceed to embedding.
	ErrEmptyContent = errors.New("no extractable content")

	// ErrExtraction marks a parse failure in the content extractor.
	ErrExtraction = errors.New("content extraction failed")

	// ErrExternalService marks embedding, vector index, or language model
	// failures. The pipeline does not retry; retrying is a caller concern.
	ErrExternalService = errors.New("external service failure")
)
