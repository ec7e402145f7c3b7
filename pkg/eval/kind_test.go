package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	x, y := 6, 9

	// Invariant under the parity-preserving steps.
	assert.Equal(t, kind(x, y), kind(x+2, y))
	assert.Equal(t, kind(x, y), kind(x-2, y))
	assert.Equal(t, kind(x, y), kind(x+1, y+2))
	assert.Equal(t, kind(x, y), kind(x-1, y+2))
	assert.Equal(t, kind(x, y), kind(x+1, y-2))
	assert.Equal(t, kind(x, y), kind(x-1, y-2))

	// Distinct for the other neighbours.
	assert.NotEqual(t, kind(x, y), kind(x+1, y))
	assert.NotEqual(t, kind(x, y), kind(x-1, y))
	assert.NotEqual(t, kind(x, y), kind(x+1, y+1))
	assert.NotEqual(t, kind(x, y), kind(x, y+1))
}

func TestCenterDistance(t *testing.T) {
	// The centre column scores zero on both row parities; the edge scores
	// the maximum.

	assert.Equal(t, centerDistance(6, 8), 0)
	assert.Equal(t, centerDistance(6, 9), 0)
	assert.Equal(t, centerDistance(7, 9), 0)
	assert.Equal(t, centerDistance(0, 4), 6)
	assert.Equal(t, centerDistance(12, 4), 6)
}
