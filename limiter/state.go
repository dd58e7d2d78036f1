package limiter

import (
	"fmt"
	"time"
)

// Outcome is the admission decision made for a single request.
type Outcome int

const (
	// Allow admits the request.
	Allow Outcome = iota
	// ShortBlock denies the request until the client's rate falls back under
	// the configured threshold.
	ShortBlock
	// ExtendedBlock denies every request from the client until its stored
	// record expires.
	ExtendedBlock
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case ShortBlock:
		return "short_block"
	case ExtendedBlock:
		return "extended_block"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// State is the record kept per client between checks. The zero value is the
// state of a client that has never been seen, or whose record has expired.
type State struct {
	// Level holds the strategy-specific measure: the estimated request rate
	// under DecayRate, the remaining request allowance under TokenBucket.
	Level float64 `json:"level"`
	// LastSeen is when the client was last evaluated. Zero marks a client
	// with no history.
	LastSeen time.Time `json:"last_seen"`
	// Excesses counts how many times the client newly crossed its threshold.
	// It never decreases while the record lives.
	Excesses int `json:"excesses"`
	// Status is the outcome the previous evaluation persisted.
	Status Outcome `json:"status"`
}

// elapsedSeconds is the time the client has been quiet. A zero lastSeen mirrors
// the stored form's epoch arithmetic: the elapsed time is enormous, so the
// very first request decays to a near-zero rate or a fully replenished
// allowance. Intentional bootstrap behavior, not a bug.
func elapsedSeconds(lastSeen, now time.Time) float64 {
	if lastSeen.IsZero() {
		return float64(now.Unix())
	}
	elapsed := now.Sub(lastSeen).Seconds()
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// exceed records that the client is over its threshold. The excess counter
// moves only on the transition out of Allow; repeated hits while already
// blocked do not count again. Past maxExcesses the block escalates, unless
// escalation is disabled with -1.
func exceed(next *State, priorStatus Outcome, maxExcesses int) {
	if priorStatus == Allow {
		next.Excesses++
	}
	if maxExcesses != -1 && next.Excesses > maxExcesses {
		next.Status = ExtendedBlock
	} else {
		next.Status = ShortBlock
	}
}
