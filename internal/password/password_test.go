package password

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndMatches(t *testing.T) {
	t.Parallel()

	// Minimum cost keeps the test fast; production uses DefaultCost.
	hasher := NewHasher(4)

	hash, err := hasher.Hash("Secr3tPw!")
	require.NoError(t, err)
	require.NotEqual(t, "Secr3tPw!", hash)

	require.True(t, hasher.Matches("Secr3tPw!", hash))
	require.False(t, hasher.Matches("wrong-password", hash))
	require.False(t, hasher.Matches("Secr3tPw!", "not-a-bcrypt-hash"))
}

func TestHashesAreSalted(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(4)

	first, err := hasher.Hash("Secr3tPw!")
	require.NoError(t, err)
	second, err := hasher.Hash("Secr3tPw!")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, hasher.Matches("Secr3tPw!", first))
	require.True(t, hasher.Matches("Secr3tPw!", second))
}

func TestOutOfRangeCostFallsBack(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(99)
	require.Equal(t, DefaultCost, hasher.cost)
}
