package hydraulic

import (
	"math"

	"planetforge/internal/worldgen/field"
)

const glacialChannelThreshold = 200 // accumulation, twice the FluvialHumid stream threshold (spec.md §4.5)

// applyGlacialCarving reshapes glacial channel cells into a parabolic
// cross-section, re-routes sinks inside the glacial mask to local minima,
// and carves cirque bowls at glacial channel heads (spec.md §4.5). Only
// lowers cells; never raises.
func applyGlacialCarving(hf *field.Heightfield, flow *field.FlowField) {
	width, height := hf.Width, hf.Height
	minV, maxV := hf.MinMax()
	elevRange := maxV - minV
	if elevRange <= 0 {
		return
	}

	channel := make([]bool, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if float64(flow.AccumulationAt(row, col)) >= glacialChannelThreshold {
				channel[row*width+col] = true
			}
		}
	}

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if !channel[row*width+col] {
				continue
			}
			carveParabolicCrossSection(hf, flow, row, col, width, height)
		}
	}

	// Re-route sinks inside the glacial mask to their local minimum
	// (overdeepened basins): a sink cell within the channel mask is lowered
	// to the minimum elevation of its 8-neighbourhood, never raised.
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if !channel[row*width+col] {
				continue
			}
			if flow.DirectionAt(row, col) != 0 {
				continue
			}
			localMin := hf.Get(row, col)
			for _, n := range neighbors8(row, col, width, height) {
				v := hf.Get(n.row, n.col)
				if v < localMin {
					localMin = v
				}
			}
			if localMin < hf.Get(row, col) {
				hf.Set(row, col, localMin)
			}
		}
	}

	carveCirqueBowls(hf, flow, channel, minV, elevRange, width, height)
}

// carveParabolicCrossSection scans up to 8 cells perpendicular to the local
// flow direction at (row,col), lowering each to the parabola that meets the
// current wall elevation at the scan edge (spec.md §4.5).
func carveParabolicCrossSection(hf *field.Heightfield, flow *field.FlowField, row, col, width, height int) {
	code := flow.DirectionAt(row, col)
	perpDR, perpDC := 0, 1
	if code != 0 {
		off := field.D8Offsets[code-1]
		// Perpendicular to (dr,dc) in-plane is (-dc,dr).
		perpDR, perpDC = -off[1], off[0]
	}

	floorZ := hf.Get(row, col)
	const halfWidth = 8
	edgeR := row + perpDR*halfWidth
	edgeC := col + perpDC*halfWidth
	if edgeR < 0 || edgeR >= height {
		return
	}
	wallZ := hf.Get(edgeR, wrapInt(edgeC, width))
	if wallZ <= floorZ {
		return
	}
	k := (wallZ - floorZ) / float64(halfWidth*halfWidth)

	for d := -halfWidth; d <= halfWidth; d++ {
		r := row + perpDR*d
		c := col + perpDC*d
		if r < 0 || r >= height {
			continue
		}
		c = wrapInt(c, width)
		target := floorZ + k*float64(d*d)
		if hf.Get(r, c) > target {
			hf.Set(r, c, target)
		}
	}
}

// carveCirqueBowls carves a hemispherical bowl at glacial channel heads (no
// glacial upstream donor) lying in the top 20% of the elevation range
// (spec.md §4.5).
func carveCirqueBowls(hf *field.Heightfield, flow *field.FlowField, channel []bool, minV, elevRange float64, width, height int) {
	hasUpstreamDonor := make([]bool, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if !channel[row*width+col] {
				continue
			}
			dr, dc, ok := flow.Downstream(row, col)
			if !ok {
				continue
			}
			if dr < 0 || dr >= height {
				continue
			}
			dc = wrapInt(dc, width)
			hasUpstreamDonor[dr*width+dc] = true
		}
	}

	const bowlRadius = 5
	depth := 0.05 * elevRange
	topThreshold := minV + 0.8*elevRange

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if !channel[row*width+col] || hasUpstreamDonor[row*width+col] {
				continue
			}
			if hf.Get(row, col) < topThreshold {
				continue
			}
			carveBowl(hf, row, col, bowlRadius, depth, width, height)
		}
	}
}

func carveBowl(hf *field.Heightfield, row, col, radius int, depth float64, width, height int) {
	for dr := -radius; dr <= radius; dr++ {
		r := row + dr
		if r < 0 || r >= height {
			continue
		}
		for dc := -radius; dc <= radius; dc++ {
			distSq := float64(dr*dr + dc*dc)
			if distSq > float64(radius*radius) {
				continue
			}
			c := wrapInt(col+dc, width)
			frac := math.Sqrt(1 - distSq/float64(radius*radius)) // hemispherical: 1 at center, 0 at rim
			lowered := hf.Get(r, c) - depth*frac
			if lowered < hf.Get(r, c) {
				if lowered < 0 {
					lowered = 0
				}
				hf.Set(r, c, lowered)
			}
		}
	}
}
