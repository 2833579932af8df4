package noisegen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatticeSizeAndRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	out := Lattice(rng, 16, 8, 4)
	require.Equal(t, 16*8, len(out))
	for _, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestLatticeDeterministic(t *testing.T) {
	a := Lattice(rand.New(rand.NewSource(7)), 16, 8, 4)
	b := Lattice(rand.New(rand.NewSource(7)), 16, 8, 4)
	assert.Equal(t, a, b)
}

func TestLatticeEmptyGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	out := Lattice(rng, 0, 0, 4)
	assert.Equal(t, 0, len(out))
}

func TestFractalLatticeNormalisedToUnitRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	out := FractalLattice(rng, 32, 16, 2, 3)
	require.Equal(t, 32*16, len(out))
	for _, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestFractalLatticeEmptyGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	out := FractalLattice(rng, 0, 5, 2, 3)
	assert.Equal(t, 0, len(out))
}
