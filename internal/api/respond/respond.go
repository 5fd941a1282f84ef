// Package respond provides shared JSON response utilities for API handlers.
// Every tournament endpoint answers with the same Envelope shape.
package respond

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Envelope is the standard response shape for all API responses.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Success builds a successful envelope.
func Success(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// Failure builds a failed envelope; data may carry field-level detail.
func Failure(message string, data any) Envelope {
	return Envelope{Success: false, Error: message, Data: data}
}

// Marshal encodes an envelope for caching or writing.
func Marshal(env Envelope) ([]byte, error) {
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return b, nil
}

// WriteEnvelope encodes env with the given status.
func WriteEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	if !env.Success {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Warn("Failed to write response", "status", status, "error", err)
	}
}

// WriteSuccess sends a successful envelope.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	WriteEnvelope(w, status, Success(message, data))
}

// WriteError sends a failed envelope.
func WriteError(w http.ResponseWriter, status int, message string, data any) {
	WriteEnvelope(w, status, Failure(message, data))
}

// WriteJSON writes pre-encoded JSON bytes with cache and ETag headers.
func WriteJSON(w http.ResponseWriter, data []byte, etag string, ttl time.Duration, cacheHit bool) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept-Encoding")
	setCacheHeaders(w, ttl, cacheHit)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// WriteNotModified sends a 304 with the matching ETag.
func WriteNotModified(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}

// WriteJSONObject marshals a Go value to JSON and writes it.
// Used for responses outside the envelope (root info, health checks).
func WriteJSONObject(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func setCacheHeaders(w http.ResponseWriter, ttl time.Duration, cacheHit bool) {
	maxAge := int(ttl.Seconds())
	if cacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	// Clients revalidate with If-None-Match; shared caches must not serve
	// entries across writes.
	w.Header().Set("Cache-Control", fmt.Sprintf("private, max-age=0, must-revalidate, stale-if-error=%d", maxAge))
}
