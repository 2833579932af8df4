package realism

import (
	"sort"

	"planetforge/internal/worldgen/field"
)

// drainageStreamThreshold is the fixed accumulation threshold the drainage
// density metric uses, independent of the hydraulic stage's per-class
// stream threshold (spec.md §4.6).
const drainageStreamThreshold = 50

// DrainageDensity recomputes D8 flow routing on the final heightfield and
// returns stream density in km per km^2 (spec.md §4.6): a cell counts as a
// stream cell when its accumulation is at least 50, and
// density = stream_count * cellsize / tile_area.
func DrainageDensity(hf *field.Heightfield) float64 {
	width, height := hf.Width, hf.Height
	if width == 0 || height == 0 {
		return 0
	}

	direction := make([]uint8, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			z := hf.Get(row, col)
			best := 0
			bestSlope := 0.0
			for code := 1; code <= 8; code++ {
				off := field.D8Offsets[code-1]
				nr, nc := row+off[0], col+off[1]
				if nr < 0 || nr >= height {
					continue
				}
				nc = wrapInt(nc, width)
				zn := hf.Get(nr, nc)
				dist := field.D8Distance(code)
				slope := (z - zn) / dist
				if slope > bestSlope {
					bestSlope = slope
					best = code
				}
			}
			direction[row*width+col] = uint8(best)
		}
	}

	n := width * height
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	zOf := func(idx int) float64 { return hf.Get(idx/width, idx%width) }
	sort.Slice(order, func(i, j int) bool { return zOf(order[i]) > zOf(order[j]) })

	acc := make([]float64, n)
	for i := range acc {
		acc[i] = 1
	}
	for _, idx := range order {
		code := direction[idx]
		if code == 0 {
			continue
		}
		row, col := idx/width, idx%width
		off := field.D8Offsets[code-1]
		nr, nc := row+off[0], col+off[1]
		if nr < 0 || nr >= height {
			continue
		}
		nc = wrapInt(nc, width)
		acc[nr*width+nc] += acc[idx]
	}

	streamCount := 0
	for _, a := range acc {
		if a >= drainageStreamThreshold {
			streamCount++
		}
	}

	cellSize := hf.CellSizeMeters()
	tileAreaM2 := float64(width) * float64(height) * cellSize * cellSize
	if tileAreaM2 <= 0 {
		return 0
	}
	streamLengthKm := float64(streamCount) * cellSize / 1000
	tileAreaKm2 := tileAreaM2 / 1e6
	return streamLengthKm / tileAreaKm2
}
