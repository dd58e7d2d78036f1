// Package limiter decides, per client, whether an incoming request should be
// admitted, briefly blocked, or blocked for an extended period, based on that
// client's recent request history. It is meant to be consulted once per
// incoming request, in front of the real handler.
//
// The Limiter holds one Strategy, chosen at startup, and an expiring
// key-value store holding each client's state. A check loads the prior state,
// lets the strategy decide, persists the new state with an outcome-dependent
// TTL and returns the outcome.
//
// The read-decide-write sequence is deliberately not atomic. Two concurrent
// checks for the same client may both read the same prior state and the
// second write wins, under-counting that burst. That is an accepted
// accuracy/throughput trade-off as long as the store offers read-after-write
// visibility for a single key.
package limiter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stittri/admission/internal/log"
	"github.com/stittri/admission/store"
)

var (
	// ErrMissingClientID is returned by Check for an empty client identifier.
	// No admission decision is made; callers apply their own default policy.
	ErrMissingClientID = errors.New("missing or invalid client identifier")

	// ErrUnknownAlgorithm marks an algorithm selection outside the closed
	// set. It surfaces at startup, never per request.
	ErrUnknownAlgorithm = errors.New("unknown rate limiting algorithm")

	// ErrNoStrategy is returned by New when no strategy is supplied.
	ErrNoStrategy = errors.New("no strategy configured")

	// ErrNoStore is returned by New when a stateful strategy has no store to
	// keep client state in.
	ErrNoStore = errors.New("no store configured for a stateful strategy")
)

// Limiter is the admission engine. It holds no mutable state of its own
// beyond the store; one Limiter may be shared by any number of goroutines.
type Limiter struct {
	store    store.Store
	strategy Strategy
	now      func() time.Time
}

// New builds a Limiter around the given store and strategy. A nil now falls
// back to time.Now; tests inject their own clock.
func New(st store.Store, strategy Strategy, now func() time.Time) (*Limiter, error) {
	if strategy == nil {
		return nil, ErrNoStrategy
	}
	if st == nil && strategy.Stateful() {
		return nil, ErrNoStore
	}
	if now == nil {
		now = time.Now
	}
	return &Limiter{store: st, strategy: strategy, now: now}, nil
}

// Check records one request from the client and returns the admission
// outcome. The outcome is only meaningful when the error is nil: store
// failures are returned as they are, wrapped, and never mapped to an outcome,
// because failing open or closed is the caller's deployment policy, not the
// engine's. Nothing is retried here.
func (l *Limiter) Check(ctx context.Context, clientID string) (Outcome, error) {
	if clientID == "" {
		return Allow, ErrMissingClientID
	}

	if !l.strategy.Stateful() {
		_, out := l.strategy.Evaluate(State{}, l.now())
		return out, nil
	}

	var prior State
	data, err := l.store.Get(ctx, clientID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// First sighting, or the record expired. Start from the zero state.
	case err != nil:
		return Allow, fmt.Errorf("load state for client %q: %w", clientID, err)
	default:
		if err := json.Unmarshal(data, &prior); err != nil {
			return Allow, fmt.Errorf("decode state for client %q: %w", clientID, err)
		}
	}

	next, out := l.strategy.Evaluate(prior, l.now())
	if next == nil {
		// Nothing to persist; an extended block rides out its TTL untouched.
		return out, nil
	}

	value, err := json.Marshal(next)
	if err != nil {
		return Allow, fmt.Errorf("encode state for client %q: %w", clientID, err)
	}
	if err := l.store.Set(ctx, clientID, value, l.strategy.TTL(out)); err != nil {
		return Allow, fmt.Errorf("store state for client %q: %w", clientID, err)
	}

	log.Logger().Debug("admission check",
		zap.String("client", clientID),
		zap.Stringer("outcome", out),
		zap.Float64("level", next.Level),
		zap.Int("excesses", next.Excesses))

	return out, nil
}

// Algorithm reports which strategy the Limiter was built with.
func (l *Limiter) Algorithm() Algorithm {
	return l.strategy.Algorithm()
}
