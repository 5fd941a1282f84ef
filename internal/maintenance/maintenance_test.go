package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type fakeSource struct {
	mu       sync.Mutex
	fp       string
	err      error
	analyzed int
}

func (s *fakeSource) Fingerprint(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fp, s.err
}

func (s *fakeSource) Analyze(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzed++
	return nil
}

func (s *fakeSource) set(fp string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fp = fp
}

type countingInvalidator struct {
	calls chan struct{}
}

func (c *countingInvalidator) Invalidate() { c.calls <- struct{}{} }

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestCatchUp(t *testing.T) {
	src := &fakeSource{fp: "3:100"}
	inv := &countingInvalidator{calls: make(chan struct{}, 10)}
	r := New(src, inv, clockwork.NewFakeClock(), DefaultConfig(), discard())
	ctx := context.Background()

	r.catchUp(ctx)
	r.catchUp(ctx)
	if got := len(inv.calls); got != 0 {
		t.Fatalf("invalidations = %d for an unchanged table, want 0", got)
	}

	src.set("4:200")
	r.catchUp(ctx)
	if got := len(inv.calls); got != 1 {
		t.Fatalf("invalidations = %d after a change, want 1", got)
	}

	src.err = errors.New("connection refused")
	r.catchUp(ctx)
	if got := len(inv.calls); got != 1 {
		t.Errorf("invalidations = %d after a failed sweep, want 1", got)
	}
	if r.last != "4:200" {
		t.Errorf("last = %q, want previous fingerprint kept on error", r.last)
	}
}

func TestStart_SweepsOnTick(t *testing.T) {
	src := &fakeSource{fp: "1:1"}
	inv := &countingInvalidator{calls: make(chan struct{}, 10)}
	clock := clockwork.NewFakeClock()
	r := New(src, inv, clock, Config{CatchUpInterval: time.Minute}, discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer waitCancel()
	if err := clock.BlockUntilContext(waitCtx, 1); err != nil {
		t.Fatalf("ticker never started: %v", err)
	}

	src.set("2:2")
	clock.Advance(time.Minute)

	select {
	case <-inv.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("cache was not invalidated after the fingerprint changed")
	}
}

func TestAnalyze(t *testing.T) {
	src := &fakeSource{}
	r := New(src, &countingInvalidator{calls: make(chan struct{}, 1)}, clockwork.NewFakeClock(), DefaultConfig(), discard())

	r.analyze(context.Background())
	if src.analyzed != 1 {
		t.Errorf("analyzed = %d, want 1", src.analyzed)
	}
}
