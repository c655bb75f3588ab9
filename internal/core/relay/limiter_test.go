package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_NoLimitByDefault(t *testing.T) {
	l := NewLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.NoError(t, l.AllowAllocation())
	}
}

func TestLimiter_JoinCapacity(t *testing.T) {
	l := NewLimiter(0, 0)

	require.NoError(t, l.AllowJoin("a", 2))
	require.NoError(t, l.AllowJoin("a", 2))
	assert.ErrorIs(t, l.AllowJoin("a", 2), ErrAllocationFull)
	require.NoError(t, l.AllowJoin("b", 2))

	l.ReleaseJoin("a")
	require.NoError(t, l.AllowJoin("a", 2))

	assert.Equal(t, LimiterStats{TotalJoins: 3, Allocations: 2}, l.Stats())

	l.Forget("a")
	assert.Equal(t, LimiterStats{TotalJoins: 1, Allocations: 1}, l.Stats())

	l.ReleaseJoin("missing")
	assert.Equal(t, 1, l.Stats().TotalJoins)
}

func TestLimiter_ZeroCapacityUnlimited(t *testing.T) {
	l := NewLimiter(0, 0)
	for i := 0; i < 10; i++ {
		require.NoError(t, l.AllowJoin("a", 0))
	}
}
