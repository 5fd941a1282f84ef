package listener

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate() { c.calls++ }

func TestNextBackoff(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{5 * time.Second, 10 * time.Second},
		{10 * time.Second, 20 * time.Second},
		{20 * time.Second, 30 * time.Second},
		{30 * time.Second, 30 * time.Second},
	}

	for _, tt := range tests {
		if got := nextBackoff(tt.in); got != tt.want {
			t.Errorf("nextBackoff(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHandle_Invalidates(t *testing.T) {
	target := &countingInvalidator{}
	l := New("postgres://unused", "tournaments_changed", target, nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	l.handle(&pgconn.Notification{Channel: "tournaments_changed", Payload: "INSERT"})
	l.handle(&pgconn.Notification{Channel: "tournaments_changed", Payload: "DELETE"})

	if target.calls != 2 {
		t.Errorf("Invalidate calls = %d, want 2", target.calls)
	}
}
