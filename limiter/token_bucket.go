package limiter

import "time"

// Token-bucket defaults: 10 requests every 5 seconds.
const (
	DefaultCapacity = 10.0
	DefaultPeriod   = 5 * time.Second
)

// TokenBucketConfig tunes the token-bucket strategy.
type TokenBucketConfig struct {
	// Capacity is the number of requests admitted within Period, and the
	// ceiling the allowance replenishes to.
	Capacity float64
	// Period is the window Capacity is measured over.
	Period time.Duration
	// MaxExcesses is how many times a client may newly run out of allowance
	// before it is blocked for the extended period. -1 disables extended
	// blocking.
	MaxExcesses int
	// RecordTTL is how long a client's record lives after an allowed or
	// short-blocked check.
	RecordTTL time.Duration
	// ExtendedBlockTTL is how long an extended block lasts.
	ExtendedBlockTTL time.Duration
}

func (c TokenBucketConfig) withDefaults() TokenBucketConfig {
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
	if c.Period == 0 {
		c.Period = DefaultPeriod
	}
	if c.MaxExcesses == 0 {
		c.MaxExcesses = DefaultMaxExcesses
	}
	if c.RecordTTL == 0 {
		c.RecordTTL = DefaultRecordTTL
	}
	if c.ExtendedBlockTTL == 0 {
		c.ExtendedBlockTTL = DefaultExtendedBlockTTL
	}
	return c
}

var _ Strategy = (*TokenBucket)(nil)

// TokenBucket caps the number of requests over a period. Every client starts
// with a full allowance; each admitted request spends one unit and the
// allowance replenishes continuously at Capacity/Period per second, capped at
// Capacity.
type TokenBucket struct {
	cfg       TokenBucketConfig
	replenish float64 // allowance regained per second
}

// NewTokenBucket builds the strategy, filling zero-valued config fields with
// the defaults.
func NewTokenBucket(cfg TokenBucketConfig) *TokenBucket {
	cfg = cfg.withDefaults()
	return &TokenBucket{
		cfg:       cfg,
		replenish: cfg.Capacity / cfg.Period.Seconds(),
	}
}

func (s *TokenBucket) Algorithm() Algorithm { return TokenBucketAlgorithm }

func (s *TokenBucket) Stateful() bool { return true }

func (s *TokenBucket) Evaluate(prior State, now time.Time) (*State, Outcome) {
	if prior.Status == ExtendedBlock {
		return nil, ExtendedBlock
	}

	allowance := prior.Level + elapsedSeconds(prior.LastSeen, now)*s.replenish
	if allowance > s.cfg.Capacity {
		allowance = s.cfg.Capacity
	}

	next := State{LastSeen: now, Excesses: prior.Excesses}
	if allowance < 1.0 {
		// Out of allowance. The request is not admitted, so nothing is spent.
		exceed(&next, prior.Status, s.cfg.MaxExcesses)
	} else {
		next.Status = Allow
		allowance -= 1.0
	}
	next.Level = allowance
	return &next, next.Status
}

func (s *TokenBucket) TTL(out Outcome) time.Duration {
	if out == ExtendedBlock {
		return s.cfg.ExtendedBlockTTL
	}
	return s.cfg.RecordTTL
}
