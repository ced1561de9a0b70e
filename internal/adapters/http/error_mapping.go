package httpadapter

import (
	"errors"
	"net/http"

	"github.com/kirillkom/pdf-summarizer/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrNoInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case domain.IsKind(err, domain.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrMalformedDocument):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrEmptyExtraction):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return domain.KindCode(domain.ErrDocumentTooLarge)
	}
	return domain.KindCode(err)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), errorResponse{Error: err.Error(), Code: errorCode(err)})
}
