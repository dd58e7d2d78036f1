package limiter

import "time"

// Decay-rate default threshold, plus the excess and TTL defaults shared by
// both stateful strategies.
const (
	DefaultMaxRate          = 4.0
	DefaultMaxExcesses      = 30
	DefaultRecordTTL        = time.Hour
	DefaultExtendedBlockTTL = 6 * time.Hour
)

// DecayRateConfig tunes the decay-rate strategy.
type DecayRateConfig struct {
	// MaxRate is the request rate, in requests per second, at or above which
	// requests are blocked.
	MaxRate float64
	// MaxExcesses is how many times a client may newly cross MaxRate before
	// it is blocked for the extended period. -1 disables extended blocking.
	MaxExcesses int
	// RecordTTL is how long a client's record lives after an allowed or
	// short-blocked check.
	RecordTTL time.Duration
	// ExtendedBlockTTL is how long an extended block lasts.
	ExtendedBlockTTL time.Duration
}

func (c DecayRateConfig) withDefaults() DecayRateConfig {
	if c.MaxRate == 0 {
		c.MaxRate = DefaultMaxRate
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

var _ Strategy = (*DecayRate)(nil)

// DecayRate models an instantaneous rate estimate that grows with every
// request and decays as time passes. More requests push the estimate up,
// which means the client has to stay away longer before it is admitted again.
type DecayRate struct {
	cfg DecayRateConfig
}

// NewDecayRate builds the strategy, filling zero-valued config fields with
// the defaults.
func NewDecayRate(cfg DecayRateConfig) *DecayRate {
	return &DecayRate{cfg: cfg.withDefaults()}
}

func (s *DecayRate) Algorithm() Algorithm { return DecayRateAlgorithm }

func (s *DecayRate) Stateful() bool { return true }

func (s *DecayRate) Evaluate(prior State, now time.Time) (*State, Outcome) {
	// An extended block holds until the record expires. No recompute, no
	// write-back.
	if prior.Status == ExtendedBlock {
		return nil, ExtendedBlock
	}

	rate := (1 + prior.Level) / (elapsedSeconds(prior.LastSeen, now) + 1)

	next := State{Level: rate, LastSeen: now, Excesses: prior.Excesses}
	if rate >= s.cfg.MaxRate {
		exceed(&next, prior.Status, s.cfg.MaxExcesses)
	} else {
		// Falling back under the threshold clears a short block outright.
		next.Status = Allow
	}
	return &next, next.Status
}

func (s *DecayRate) TTL(out Outcome) time.Duration {
	if out == ExtendedBlock {
		return s.cfg.ExtendedBlockTTL
	}
	return s.cfg.RecordTTL
}
