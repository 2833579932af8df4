// Package realism implements the ten geomorphometric estimators and the
// weighted realism scorer of spec.md §4.6, grounded in the original Rust
// prototype's metrics/ crate (see _examples/original_source/crates/terra-core/src/metrics)
// for exact formulas (Horn gradient convention, aspect circular variance)
// where the prototype carried a full implementation, and in the teacher's
// geography package plus the sibling inmap repos' use of gonum.org/v1/gonum
// for the regression-based estimators (Hurst, multifractal) the prototype
// only stubbed.
package realism

import (
	"math"
	"sort"
)

// hornGradient computes the Horn (1981) weighted 3x3 gradient at interior
// cell (row,col), matching the sign convention of the prototype's
// metrics/gradient.rs: dz/dx positive eastward, dz/dy positive northward
// (row 0 is north, so the NW/N/NE row carries the positive term).
func hornGradient(hf heightSampler, row, col int, cellSize float64) (dzdx, dzdy float64) {
	nw := hf.Get(row-1, col-1)
	n := hf.Get(row-1, col)
	ne := hf.Get(row-1, col+1)
	w := hf.Get(row, col-1)
	e := hf.Get(row, col+1)
	sw := hf.Get(row+1, col-1)
	s := hf.Get(row+1, col)
	se := hf.Get(row+1, col+1)

	dzdx = ((ne + 2*e + se) - (nw + 2*w + sw)) / (8 * cellSize)
	dzdy = ((nw + 2*n + ne) - (sw + 2*s + se)) / (8 * cellSize)
	return dzdx, dzdy
}

// heightSampler is satisfied by *field.Heightfield; declared locally so
// this file only depends on the Get(row,col) method it actually uses.
type heightSampler interface {
	Get(row, col int) float64
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func wrapInt(v, n int) int {
	if n <= 0 {
		return 0
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// percentileRanks returns, for each element, its rank among all elements
// divided by (n-1), in [0,1].
func percentileRanks(values []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n <= 1 {
		return out
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })
	for rank, idx := range order {
		out[idx] = float64(rank) / float64(n-1)
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range xs {
		s += v
	}
	return s / float64(len(xs))
}

func stdDev(xs []float64, m float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range xs {
		d := v - m
		s += d * d
	}
	return math.Sqrt(s / float64(len(xs)))
}
