package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/logger"
)

// URL parameter names
const (
	ParamPlayerID = "playerID"
	ParamCategory = "category"

	QueryLimit = "limit"
)

// maxBodyBytes caps request bodies; every body here is a single short field
const maxBodyBytes = 4 << 10

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest decodes a JSON request body, validates it, and returns appropriate errors.
// If this function returns an error, the HTTP response has already been written and the handler should return.
//
// Example usage:
//
//	var req ItemRequest
//	if err := DecodeAndValidateRequest(r, w, &req, "Select item"); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		log.Warn(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	log.Debug(fmt.Sprintf("%s request decoded", actionName))

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}

	return nil
}

// categoryParam parses the {category} URL parameter. If ok is false the
// response has already been written.
func categoryParam(w http.ResponseWriter, r *http.Request) (domain.Category, bool) {
	cat, err := domain.ParseCategory(chi.URLParam(r, ParamCategory))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidCategory)
		return "", false
	}
	return cat, true
}

// playerIDParam reads the {playerID} URL parameter. If ok is false the
// response has already been written.
func playerIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	playerID := strings.TrimSpace(chi.URLParam(r, ParamPlayerID))
	if playerID == "" {
		respondError(w, http.StatusBadRequest, ErrMsgMissingPlayerID)
		return "", false
	}
	return playerID, true
}
