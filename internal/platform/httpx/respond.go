// Package httpx holds the response helpers shared by the domain handlers.
package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pet-household/internal/platform/apperr"
	"pet-household/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// MessageResponse is the body of every error and of plain message replies.
type MessageResponse struct {
	Message string `json:"Message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, MessageResponse{Message: msg})
}

// WriteError maps err to its status code and writes a message body.
// Internal errors get an incident id so the log line can be found without
// exposing driver details to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	kind := apperr.KindOf(err)

	if kind == apperr.Internal {
		incident := uuid.NewString()
		log.Error("request failed", map[string]any{
			"incident": incident,
			"error":    err,
			"method":   r.Method,
			"path":     r.URL.Path,
		})
		WriteMessage(w, kind.HTTPStatus(), "Internal server error (incident "+incident+")")
		return
	}

	msg := apperr.MessageOf(err)
	log.Info("request rejected", map[string]any{
		"kind":    kind.String(),
		"message": msg,
		"method":  r.Method,
		"path":    r.URL.Path,
	})
	WriteMessage(w, kind.HTTPStatus(), msg)
}

// DecodeJSON decodes the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.InvalidRequest("Invalid JSON body")
	}
	return nil
}

// IDParam parses a numeric chi URL parameter. ok is false for anything that
// is not a positive integer.
func IDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
