package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/logger"
	"github.com/osse101/cosmetics/internal/metrics"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Kind is the machine-readable
// error kind clients should branch on.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// bufferPool is a pool of bytes.Buffer to reduce allocations during JSON encoding
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	// Encode before writing headers so an encoding failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err, counts it and maps its kind to a status code
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, message := mapServiceErrorToUserMessage(err)
	kind := domain.KindOf(err)

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err, "kind", kind.String())
	} else {
		log.Warn(opName+" rejected", "error", err, "kind", kind.String())
	}
	metrics.RecordOperationError(opName, err)

	resp := ErrorResponse{Error: message}
	if kind != domain.KindNone {
		resp.Kind = kind.String()
	}
	respondJSON(w, status, resp)
}

// mapServiceErrorToUserMessage maps domain error kinds to HTTP responses.
// Client-caused kinds carry the service message; server-side kinds do not
// leak internals.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	detail := ""
	var de *domain.Error
	if errors.As(err, &de) {
		detail = de.Message
	}
	withDetail := func(fallback string) string {
		if detail != "" {
			return detail
		}
		return fallback
	}

	switch domain.KindOf(err) {
	case domain.KindNotInitialized:
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	case domain.KindInvalidID:
		return http.StatusBadRequest, withDetail(ErrMsgInvalidIDError)
	case domain.KindNotFoundInDatabase:
		return http.StatusNotFound, withDetail(ErrMsgItemNotFoundError)
	case domain.KindNotOwned:
		return http.StatusConflict, withDetail(ErrMsgNotOwnedError)
	case domain.KindNotUnlockable:
		return http.StatusForbidden, withDetail(ErrMsgNotUnlockableError)
	case domain.KindUnlockProviderFailure:
		return http.StatusPaymentRequired, ErrMsgUnlockFailedError
	case domain.KindStorageFailure:
		return http.StatusInternalServerError, ErrMsgStorageError
	}

	if errors.Is(err, domain.ErrInvalidInput) {
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
