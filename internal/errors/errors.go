package errors

import "errors"

// Common errors used throughout the application
var (
	// Configuration errors
	ErrMissingAPIKey = errors.New("OpenAI API key is not configured")

	// Validation errors
	ErrEmptyText    = errors.New("note text cannot be empty")
	ErrEmptyQuery   = errors.New("search query cannot be empty")
	ErrEmptyAudio   = errors.New("audio data cannot be empty")
	ErrInvalidLimit = errors.New("limit must be positive")
	ErrInvalidVoice = errors.New("unknown speech synthesis voice")

	// Index errors
	ErrCollectionNotFound = errors.New("collection does not exist")
	ErrIDCollision        = errors.New("a record with this id already exists")
	ErrDimensionMismatch  = errors.New("embedding dimension mismatch")

	// Embedding errors
	ErrInvalidEmbeddingLength = errors.New("invalid embedding data length")
)
