package limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPassThrough_AlwaysAllows(t *testing.T) {
	strategy := NewPassThrough()

	assert.Equal(t, PassThroughAlgorithm, strategy.Algorithm())
	assert.False(t, strategy.Stateful())
	assert.Equal(t, time.Duration(0), strategy.TTL(ShortBlock))

	priors := []State{
		{},
		{Level: 100, LastSeen: testTime, Excesses: 50, Status: ShortBlock},
		{Status: ExtendedBlock},
	}
	for _, prior := range priors {
		next, out := strategy.Evaluate(prior, testTime)
		assert.Nil(t, next)
		assert.Equal(t, Allow, out)
	}
}
