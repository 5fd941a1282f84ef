// Package listener provides a Postgres LISTEN/NOTIFY consumer that keeps the
// response cache coherent across API instances. It holds a dedicated pgx
// connection (not from the pool) listening on the tournaments change channel.
//
// The trigger installed by Migrate fires pg_notify once per write statement
// with the operation name (INSERT, UPDATE, DELETE) as payload.
package listener

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonboulle/clockwork"
)

const (
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// Invalidator is notified of every change event.
type Invalidator interface {
	Invalidate()
}

// Listener consumes change notifications on one channel.
type Listener struct {
	dbURL   string
	channel string
	target  Invalidator
	clock   clockwork.Clock
	logger  *slog.Logger
}

// New creates a listener for channel that invalidates target on every event.
func New(dbURL, channel string, target Invalidator, clock clockwork.Clock, logger *slog.Logger) *Listener {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Listener{
		dbURL:   dbURL,
		channel: channel,
		target:  target,
		clock:   clock,
		logger:  logger,
	}
}

// Start opens a dedicated connection and listens on the channel. It
// reconnects automatically on connection loss. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func (l *Listener) Start(ctx context.Context) {
	backoff := reconnectBackoff

	for {
		connected, err := l.listenLoop(ctx)
		if ctx.Err() != nil {
			l.logger.Info("Change listener stopped (context cancelled)")
			return
		}
		if connected {
			backoff = reconnectBackoff
		}

		// Events may have been missed while disconnected.
		l.target.Invalidate()

		l.logger.Error("Change listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-l.clock.After(backoff):
			backoff = nextBackoff(backoff)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled; connected reports whether LISTEN succeeded.
func (l *Listener) listenLoop(ctx context.Context) (connected bool, err error) {
	conn, err := pgx.Connect(ctx, l.dbURL)
	if err != nil {
		return false, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize())
	if err != nil {
		return false, fmt.Errorf("LISTEN %s: %w", l.channel, err)
	}
	l.logger.Info("Change listener connected", "channel", l.channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return true, fmt.Errorf("wait for notification: %w", err)
		}
		l.handle(notification)
	}
}

func (l *Listener) handle(n *pgconn.Notification) {
	l.target.Invalidate()
	l.logger.Debug("Change event received",
		"channel", n.Channel, "operation", n.Payload, "pid", n.PID)
}

func nextBackoff(current time.Duration) time.Duration {
	return min(current*2, maxReconnect)
}
