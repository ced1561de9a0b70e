package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoInput           = errors.New("no document supplied")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrDocumentTooLarge  = errors.New("document too large")
	ErrMalformedDocument = errors.New("malformed document")
	ErrEmptyExtraction   = errors.New("no text found in document")
	ErrGenerationFailed  = errors.New("summary generation failed")
	ErrInvalidInput      = errors.New("invalid input")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

// NewError builds a typed error for failures that have no underlying cause.
func NewError(kind error, operation, detail string) error {
	return fmt.Errorf("%s: %w: %s", operation, kind, detail)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// KindCode returns a stable machine-readable code for the outermost known kind.
func KindCode(err error) string {
	switch {
	case err == nil:
		return ""
	case IsKind(err, ErrNoInput):
		return "no_input"
	case IsKind(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case IsKind(err, ErrDocumentTooLarge):
		return "document_too_large"
	case IsKind(err, ErrMalformedDocument):
		return "malformed_document"
	case IsKind(err, ErrEmptyExtraction):
		return "empty_extraction"
	case IsKind(err, ErrGenerationFailed):
		return "generation_failed"
	case IsKind(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
