package limiter

import "time"

var _ Strategy = PassThrough{}

// PassThrough admits every request. It disables limiting without changing the
// Limiter's call contract, and never touches the store.
type PassThrough struct{}

func NewPassThrough() PassThrough { return PassThrough{} }

func (PassThrough) Algorithm() Algorithm { return PassThroughAlgorithm }

func (PassThrough) Stateful() bool { return false }

func (PassThrough) Evaluate(State, time.Time) (*State, Outcome) { return nil, Allow }

func (PassThrough) TTL(Outcome) time.Duration { return 0 }
