package domain

import "errors"

// Sentinel errors returned by core services and adapters.
var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a request failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a document format that cannot be parsed.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrParse indicates a document could not be parsed.
	ErrParse = errors.New("parse failure")

	// ErrLLMUnavailable indicates the language model could not be reached.
	ErrLLMUnavailable = errors.New("language model unavailable")

	// ErrSourceUnavailable indicates the document source could not be reached.
	ErrSourceUnavailable = errors.New("document source unavailable")

	// ErrNotConfigured indicates a required configuration value is missing.
	ErrNotConfigured = errors.New("not configured")
)
