package remoteagent

import (
	"context"
	"math"
	"time"
)

// BackoffConfig mirrors internal/lsp/supervisor.go's SupervisorConfig
// backoff fields, reused here for reconnecting to a dropped remote
// agent instead of restarting a crashed language server.
type BackoffConfig struct {
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
	Multiplier  float64
}

// DefaultBackoffConfig matches the teacher's DefaultSupervisorConfig
// values.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		MaxAttempts: 5,
		Initial:     1 * time.Second,
		Max:         60 * time.Second,
		Multiplier:  2.0,
	}
}

// CalculateBackoff returns the delay before reconnect attempt number
// attempt (1-based); attempt<=1 returns Initial, and growth is
// exponential thereafter, capped at Max — ported directly from
// internal/lsp/supervisor.go's CalculateBackoff.
func CalculateBackoff(attempt int, cfg BackoffConfig) time.Duration {
	if attempt <= 1 {
		return cfg.Initial
	}
	delay := float64(cfg.Initial) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if delay > float64(cfg.Max) {
		return cfg.Max
	}
	return time.Duration(delay)
}

// Dialer opens a fresh connection to the remote agent, returning a
// Client already started against ctx.
type Dialer func(ctx context.Context) (*Client, error)

// Supervisor keeps a Client connected, reconnecting with exponential
// backoff (bounded by MaxAttempts) whenever the current connection's
// read loop ends — grounded on internal/lsp/supervisor.go's
// crash-restart loop, adapted from "restart a child process" to
// "redial a socket."
type Supervisor struct {
	dial   Dialer
	cfg    BackoffConfig
	events chan SupervisorEvent
}

// SupervisorEvent reports one reconnect attempt or terminal failure.
type SupervisorEvent struct {
	Attempt   int
	Err       error
	NextRetry time.Duration
	Failed    bool
}

// NewSupervisor creates a Supervisor dialing via dial with backoff cfg.
func NewSupervisor(dial Dialer, cfg BackoffConfig) *Supervisor {
	return &Supervisor{dial: dial, cfg: cfg, events: make(chan SupervisorEvent, 8)}
}

// Events reports reconnect attempts and the terminal failure, for a
// status-bar warning to surface via internal/warning.
func (s *Supervisor) Events() <-chan SupervisorEvent { return s.events }

// Run dials once, then redials with backoff each time the connection
// drops, until ctx is cancelled or dialing fails MaxAttempts+1 times in
// a row (the first try plus MaxAttempts retries). It blocks until one of those terminal conditions; callers run
// it in a goroutine (or hand it to an asyncbridge.Supervisor worker).
func (s *Supervisor) Run(ctx context.Context) error {
	attempt := 0
	for {
		client, err := s.dial(ctx)
		if err == nil {
			attempt = 0
			s.waitForDisconnect(ctx, client)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		attempt++
		if attempt > s.cfg.MaxAttempts {
			s.events <- SupervisorEvent{Attempt: attempt, Err: err, Failed: true}
			return err
		}

		delay := CalculateBackoff(attempt, s.cfg)
		s.events <- SupervisorEvent{Attempt: attempt, Err: err, NextRetry: delay}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// waitForDisconnect blocks until client's connection ends (its done
// channel closes, including via an explicit Close).
func (s *Supervisor) waitForDisconnect(ctx context.Context, client *Client) {
	select {
	case <-ctx.Done():
		_ = client.Close()
	case <-client.done:
	}
}
