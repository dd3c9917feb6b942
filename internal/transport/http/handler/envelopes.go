package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/YogeshxSaini/bluestock/internal/domain"
)

// Envelope is the response wrapper shared by every endpoint.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
	StatusCode int         `json:"statusCode"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, msg string, data interface{}) {
	writeJSON(w, status, Envelope{Success: true, Message: msg, Data: data, StatusCode: status})
}

func writeError(w http.ResponseWriter, status int, msg string, details ...string) {
	writeJSON(w, status, Envelope{Message: msg, Errors: details, StatusCode: status})
}

// writeServiceError maps a service error onto the envelope. missingIsBadRequest
// turns NotFound into 400 for the verify endpoints, where a missing code means
// the client must request a new one.
func writeServiceError(w http.ResponseWriter, err error, missingIsBadRequest bool) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message, ve.Details...)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, clientMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrNotFound):
		status := http.StatusNotFound
		if missingIsBadRequest {
			status = http.StatusBadRequest
		}
		writeError(w, status, clientMessage(err, domain.ErrNotFound))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, clientMessage(err, domain.ErrConflict))
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, clientMessage(err, domain.ErrUnauthorized))
	case errors.Is(err, domain.ErrExpired):
		writeError(w, http.StatusBadRequest, clientMessage(err, domain.ErrExpired))
	case errors.Is(err, domain.ErrMismatch):
		writeError(w, http.StatusBadRequest, clientMessage(err, domain.ErrMismatch))
	case errors.Is(err, domain.ErrUpstream):
		slog.Error("upstream failure", "err", err)
		writeError(w, http.StatusInternalServerError, clientMessage(err, domain.ErrUpstream))
	default:
		slog.Error("unhandled service error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// clientMessage drops the trailing sentinel text added by %w wrapping.
func clientMessage(err, sentinel error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// NotFound answers unknown routes with the standard envelope.
func NotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "route not found")
}
