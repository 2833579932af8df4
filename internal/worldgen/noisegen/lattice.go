// Package noisegen holds the low-frequency value-noise lattice shared by
// plate erodibility and climate modulation. It is deliberately separate from
// the noise synthesis path (smooth base, H field, detail), which drives
// github.com/aquilax/go-perlin instead.
package noisegen

import (
	"math"
	"math/rand"
)

// Lattice synthesises a deterministic bilinearly-interpolated value-noise
// field at roughly cyclesPerAxis cycles across a width×height grid,
// normalised to [0,1]. Longitude wraps; latitude clamps at the poles.
func Lattice(rng *rand.Rand, width, height, cyclesPerAxis int) []float64 {
	if cyclesPerAxis < 1 {
		cyclesPerAxis = 1
	}
	lat := cyclesPerAxis + 1
	lattice := make([]float64, lat*lat)
	for i := range lattice {
		lattice[i] = rng.Float64()
	}

	sample := func(u, v float64) float64 {
		fu := u * float64(cyclesPerAxis)
		fv := v * float64(cyclesPerAxis)
		x0 := int(math.Floor(fu))
		y0 := int(math.Floor(fv))
		tx := fu - float64(x0)
		ty := fv - float64(y0)
		at := func(x, y int) float64 {
			x = wrapInt(x, cyclesPerAxis)
			y = clampInt(y, 0, lat-1)
			return lattice[y*lat+x]
		}
		v00 := at(x0, y0)
		v10 := at(x0+1, y0)
		v01 := at(x0, y0+1)
		v11 := at(x0+1, y0+1)
		top := v00*(1-tx) + v10*tx
		bottom := v01*(1-tx) + v11*tx
		return top*(1-ty) + bottom*ty
	}

	out := make([]float64, width*height)
	if width <= 0 || height <= 0 {
		return out
	}
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			u := float64(col) / float64(width)
			v := float64(row) / float64(height)
			out[row*width+col] = sample(u, v)
		}
	}
	return out
}

// FractalLattice sums `octaves` lattice layers at doubling frequency and
// halving amplitude, renormalised to [0,1]. Used for the coarse
// multi-octave climate modulation noise.
func FractalLattice(rng *rand.Rand, width, height, baseCycles, octaves int) []float64 {
	out := make([]float64, width*height)
	if width <= 0 || height <= 0 {
		return out
	}
	var sumAmp float64
	amp := 1.0
	for o := 0; o < octaves; o++ {
		layer := Lattice(rng, width, height, baseCycles*(1<<uint(o)))
		for i, v := range layer {
			out[i] += v * amp
		}
		sumAmp += amp
		amp *= 0.5
	}
	if sumAmp > 0 {
		for i := range out {
			out[i] /= sumAmp
		}
	}
	return out
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
