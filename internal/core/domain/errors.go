package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrUnrecognizedFormat indicates a source document matches none of the
	// known structural variants. Fatal for that document only; batch
	// ingestion continues with the remaining documents.
	ErrUnrecognizedFormat = errors.New("unrecognized document format")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEncoderUnavailable indicates the embedding encoder is not configured.
	// Semantic search is disabled without an encoder.
	ErrEncoderUnavailable = errors.New("encoder unavailable")

	// ErrIndexUnavailable indicates the similarity index is not configured.
	ErrIndexUnavailable = errors.New("similarity index unavailable")
)
