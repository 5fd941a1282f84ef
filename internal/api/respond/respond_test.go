package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWriteError_OmitsEmptyFields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "Tournament not found", nil)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["success"] != false || body["error"] != "Tournament not found" {
		t.Errorf("body = %v", body)
	}
	for _, key := range []string{"data", "message"} {
		if _, ok := body[key]; ok {
			t.Errorf("body has %q, want it omitted", key)
		}
	}
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, http.StatusCreated, "Tournament created successfully", map[string]int{"id": 7})

	var body Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if rec.Code != http.StatusCreated || !body.Success || body.Message != "Tournament created successfully" {
		t.Errorf("got %d %+v", rec.Code, body)
	}
	if body.Error != "" {
		t.Errorf("Error = %q, want empty", body.Error)
	}
}

func TestWriteJSON_CacheHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, []byte(`{"success":true}`), `W/"abc"`, 30*time.Second, true)

	if got := rec.Header().Get("ETag"); got != `W/"abc"` {
		t.Errorf("ETag = %q", got)
	}
	if got := rec.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("X-Cache = %q, want HIT", got)
	}
	if rec.Body.String() != `{"success":true}` {
		t.Errorf("body = %q, want bytes passed through", rec.Body.String())
	}
}

func TestWriteNotModified(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteNotModified(rec, `W/"abc"`)

	if rec.Code != http.StatusNotModified || rec.Body.Len() != 0 {
		t.Errorf("got %d with %d body bytes, want 304 and empty body", rec.Code, rec.Body.Len())
	}
}
