package realism

import (
	"math"

	"planetforge/internal/worldgen/field"
)

const moranBlockSize = 64

// MoranI partitions the grid into 64x64 blocks, computes the hypsometric
// integral per block, and returns the queen-contiguity Moran's I of that
// block-level field (spec.md §4.6). Longitude wraps across the dateline;
// latitude does not.
func MoranI(hf *field.Heightfield) float64 {
	width, height := hf.Width, hf.Height
	if width < moranBlockSize || height < moranBlockSize {
		return math.NaN()
	}

	blockCols := (width + moranBlockSize - 1) / moranBlockSize
	blockRows := (height + moranBlockSize - 1) / moranBlockSize
	hiValues := make([]float64, blockRows*blockCols)

	for br := 0; br < blockRows; br++ {
		for bc := 0; bc < blockCols; bc++ {
			minZ, maxZ := math.Inf(1), math.Inf(-1)
			sum, n := 0.0, 0
			r0, r1 := br*moranBlockSize, minInt((br+1)*moranBlockSize, height)
			c0, c1 := bc*moranBlockSize, minInt((bc+1)*moranBlockSize, width)
			for row := r0; row < r1; row++ {
				for col := c0; col < c1; col++ {
					z := hf.Get(row, col)
					if z < minZ {
						minZ = z
					}
					if z > maxZ {
						maxZ = z
					}
					sum += z
					n++
				}
			}
			hi := 0.5
			if n > 0 && maxZ-minZ >= 1.0 {
				hi = clamp01((sum/float64(n) - minZ) / (maxZ - minZ))
			}
			hiValues[br*blockCols+bc] = hi
		}
	}

	m := mean(hiValues)
	n := len(hiValues)

	var numerator, denominator, weightSum float64
	for i := 0; i < n; i++ {
		ir, ic := i/blockCols, i%blockCols
		di := hiValues[i] - m
		denominator += di * di
		for _, off := range queenOffsets {
			jr := ir + off.dr
			if jr < 0 || jr >= blockRows {
				continue
			}
			jc := wrapInt(ic+off.dc, blockCols)
			j := jr*blockCols + jc
			dj := hiValues[j] - m
			numerator += di * dj
			weightSum++
		}
	}
	if denominator == 0 || weightSum == 0 {
		return math.NaN()
	}
	return (float64(n) / weightSum) * (numerator / denominator)
}

var queenOffsets = [8]cellOffset{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
