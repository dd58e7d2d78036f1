package limiter

import (
	"fmt"
	"time"
)

// Algorithm identifies one of the closed set of admission strategies.
type Algorithm uint32

const (
	DecayRateAlgorithm Algorithm = iota
	TokenBucketAlgorithm
	PassThroughAlgorithm
)

func (a Algorithm) String() string {
	switch a {
	case DecayRateAlgorithm:
		return "decay_rate"
	case TokenBucketAlgorithm:
		return "token_bucket"
	case PassThroughAlgorithm:
		return "pass_through"
	default:
		return fmt.Sprintf("algorithm(%d)", uint32(a))
	}
}

// ParseAlgorithm maps a configuration name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "decay_rate":
		return DecayRateAlgorithm, nil
	case "token_bucket":
		return TokenBucketAlgorithm, nil
	case "pass_through":
		return PassThroughAlgorithm, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Strategy turns a client's prior state into an admission outcome.
//
// Evaluate is a pure function of the prior state and the current time; all
// store traffic stays in the Limiter. A nil next state tells the Limiter
// there is nothing to write back, either because the strategy keeps no state
// at all or because the stored record must stay untouched (an extended block
// holds until it expires on its own).
type Strategy interface {
	Evaluate(prior State, now time.Time) (next *State, out Outcome)

	// TTL returns how long a record persisted with the given outcome lives.
	TTL(out Outcome) time.Duration

	// Algorithm identifies the strategy.
	Algorithm() Algorithm

	// Stateful reports whether the strategy reads and writes client state.
	Stateful() bool
}

// Config carries the tunables for every algorithm. Only the section matching
// the selected algorithm is consulted; zero-valued fields take the compiled-in
// defaults.
type Config struct {
	DecayRate   DecayRateConfig
	TokenBucket TokenBucketConfig
}

// NewStrategy builds the strategy for the selected algorithm. An algorithm
// outside the closed set is a deployment misconfiguration and fails here,
// never per request.
func NewStrategy(alg Algorithm, cfg Config) (Strategy, error) {
	switch alg {
	case DecayRateAlgorithm:
		return NewDecayRate(cfg.DecayRate), nil
	case TokenBucketAlgorithm:
		return NewTokenBucket(cfg.TokenBucket), nil
	case PassThroughAlgorithm:
		return NewPassThrough(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, alg)
	}
}
