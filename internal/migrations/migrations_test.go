package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_ListsVersionsInOrder(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := src.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)

	_, err = src.Next(next)
	assert.Error(t, err)
}

func TestSource_EveryUpHasDown(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	for _, version := range []uint{1, 2} {
		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "up %d", version)
		up.Close()

		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "down %d", version)
		down.Close()
	}
}

func TestForce_InvalidVersion(t *testing.T) {
	err := Force("postgres://unused", "abc")
	assert.ErrorContains(t, err, "invalid version format")
}
