package limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testTime = time.Date(2022, 5, 10, 9, 15, 0, 0, time.UTC)

func TestDecayRate_Evaluate(t *testing.T) {
	var tests = []struct {
		name         string
		cfg          DecayRateConfig
		prior        State
		want         Outcome
		wantExcesses int
		wantNoWrite  bool
	}{
		{
			name:  "never-seen client is allowed",
			prior: State{},
			want:  Allow,
		},
		{
			name: "isolated request decays under the threshold",
			prior: State{
				Level:    100,
				LastSeen: testTime.Add(-100 * time.Second),
				Excesses: 5,
				Status:   Allow,
			},
			want:         Allow,
			wantExcesses: 5,
		},
		{
			name: "burst crosses the threshold",
			prior: State{
				Level:    3.5,
				LastSeen: testTime,
				Status:   Allow,
			},
			want:         ShortBlock,
			wantExcesses: 1,
		},
		{
			name: "repeated blocked hits do not count again",
			prior: State{
				Level:    4.5,
				LastSeen: testTime,
				Excesses: 1,
				Status:   ShortBlock,
			},
			want:         ShortBlock,
			wantExcesses: 1,
		},
		{
			name: "excesses past the maximum escalate",
			cfg:  DecayRateConfig{MaxExcesses: 2},
			prior: State{
				Level:    4,
				LastSeen: testTime,
				Excesses: 2,
				Status:   Allow,
			},
			want:         ExtendedBlock,
			wantExcesses: 3,
		},
		{
			name: "escalation disabled with -1",
			cfg:  DecayRateConfig{MaxExcesses: -1},
			prior: State{
				Level:    4,
				LastSeen: testTime,
				Excesses: 50,
				Status:   Allow,
			},
			want:         ShortBlock,
			wantExcesses: 51,
		},
		{
			name: "falling under the threshold clears a short block",
			prior: State{
				Level:    4.5,
				LastSeen: testTime.Add(-10 * time.Second),
				Excesses: 2,
				Status:   ShortBlock,
			},
			want:         Allow,
			wantExcesses: 2,
		},
		{
			name: "extended block is sticky and not recomputed",
			prior: State{
				Level:    4,
				LastSeen: testTime.Add(-time.Hour),
				Excesses: 31,
				Status:   ExtendedBlock,
			},
			want:        ExtendedBlock,
			wantNoWrite: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := NewDecayRate(tt.cfg)

			next, out := strategy.Evaluate(tt.prior, testTime)

			assert.Equal(t, tt.want, out)
			if tt.wantNoWrite {
				assert.Nil(t, next)
				return
			}
			assert.NotNil(t, next)
			assert.Equal(t, tt.want, next.Status)
			assert.Equal(t, tt.wantExcesses, next.Excesses)
			assert.Equal(t, testTime, next.LastSeen)
		})
	}
}

func TestDecayRate_BurstUntilBlocked(t *testing.T) {
	strategy := NewDecayRate(DecayRateConfig{})
	prior := State{}

	// With no elapsed time between requests the rate estimate climbs by one
	// per call, so the default threshold of 4 trips on the fifth call.
	want := []Outcome{Allow, Allow, Allow, Allow, ShortBlock, ShortBlock}
	for i, w := range want {
		next, out := strategy.Evaluate(prior, testTime)
		assert.Equal(t, w, out, "call %d", i+1)
		prior = *next
	}
	assert.Equal(t, 1, prior.Excesses)
}

func TestDecayRate_Defaults(t *testing.T) {
	strategy := NewDecayRate(DecayRateConfig{})

	assert.Equal(t, DecayRateAlgorithm, strategy.Algorithm())
	assert.True(t, strategy.Stateful())
	assert.Equal(t, DefaultRecordTTL, strategy.TTL(Allow))
	assert.Equal(t, DefaultRecordTTL, strategy.TTL(ShortBlock))
	assert.Equal(t, DefaultExtendedBlockTTL, strategy.TTL(ExtendedBlock))
}
