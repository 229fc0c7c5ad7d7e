package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/service"
	"github.com/MKhiriev/go-pantry-keeper/internal/store"
	"github.com/MKhiriev/go-pantry-keeper/internal/utils"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:       http.StatusBadRequest,
	service.ErrInvalidEmail:              http.StatusBadRequest,
	service.ErrWeakPassword:              http.StatusBadRequest,
	service.ErrValidationEmptyItemName:   http.StatusBadRequest,
	service.ErrValidationBadQuantity:     http.StatusBadRequest,
	service.ErrValidationEmptyPatch:      http.StatusBadRequest,
	service.ErrValidationNoAssetData:     http.StatusBadRequest,
	service.ErrValidationNoAssetFileName: http.StatusBadRequest,

	service.ErrWrongPassword:             http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid:   http.StatusUnauthorized,

	store.ErrEmailAlreadyExists: http.StatusConflict,
	store.ErrItemNotSaved:       http.StatusConflict,
	store.ErrNoUserWasFound:     http.StatusNotFound,
	store.ErrProfileNotFound:    http.StatusNotFound,
	store.ErrItemNotFound:       http.StatusNotFound,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func codeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	default:
		return "internal_error"
	}
}

// writeError logs the error and writes the uniform JSON error body with
// the status mapped from the error chain. Internal errors are masked: the
// client sees only the generic status text, never storage details.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := logger.FromRequest(r)
	log.Err(err).Msg(msg)

	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(http.StatusInternalServerError)
	}

	utils.WriteJSONError(w, codeFromStatus(status), message, status)
}
