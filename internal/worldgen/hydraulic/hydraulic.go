// Package hydraulic implements pit filling, D8 flow routing, stream-power
// erosion, mass wasting, glacial carving, stream network extraction, and
// drainage basin delineation (spec.md §4.5), grounded in the teacher's
// ecosystem/geography erosion helpers but replacing the cellular-automaton
// erosion model with the spec's priority-flood/stream-power pipeline
// (Barnes 2014, Howard 1994).
package hydraulic

import (
	"container/heap"
	"math"
	"sort"

	"planetforge/internal/perr"
	"planetforge/internal/worldgen/field"
	"planetforge/internal/worldgen/params"
)

// erosionIterationsByClass mirrors the per-class erosion iteration counts of
// params.Resolve; Shape receives the terrain class rather than the resolved
// record, so it looks the count up here.
var erosionIterationsByClass = map[params.TerrainClass]int{
	params.ClassAlpine:       30,
	params.ClassFluvialHumid: 50,
	params.ClassFluvialArid:  20,
	params.ClassCratonic:     10,
	params.ClassCoastal:      25,
}

var angleOfReposeByClass = map[params.TerrainClass]float64{
	params.ClassAlpine:       35,
	params.ClassFluvialHumid: 30,
	params.ClassFluvialArid:  35,
	params.ClassCratonic:     25,
	params.ClassCoastal:      20,
}

// streamThresholdByClass implements the class-dependent accumulation
// threshold of spec.md §4.5.
var streamThresholdByClass = map[params.TerrainClass]float64{
	params.ClassAlpine:       200,
	params.ClassFluvialHumid: 100,
	params.ClassFluvialArid:  300,
	params.ClassCratonic:     500,
	params.ClassCoastal:      400,
}

// Result bundles the final flow field, stream network, and basin list
// (spec.md §4.5).
type Result struct {
	Flow     *field.FlowField
	Streams  *field.StreamNetwork
	Basins   []field.DrainageBasin
	BasinIDs []int // per-cell basin id, row-major, len W*H
}

// Shape runs the full hydraulic stage in place on hf, using erodibility as
// the per-cell stream-power coefficient (spec.md §4.5). A zero dimension
// returns empty results without aborting; a non-zero size mismatch between
// hf and erodibility is a programming fault (spec.md §3/§7) and panics with
// a *perr.GenError rather than silently sampling the wrong cell.
func Shape(hf *field.Heightfield, erodibility *field.ErodibilityField, terrainClass params.TerrainClass, glacialClass params.GlacialClass) Result {
	width, height := hf.Width, hf.Height
	if width <= 0 || height <= 0 {
		return Result{
			Flow:    field.NewFlowField(0, 0),
			Streams: field.NewStreamNetwork(0, 0),
		}
	}
	if erodibility.Width != width || erodibility.Height != height {
		panic(perr.New(perr.CodeFieldSizeMismatch, "erodibility field dimensions do not match heightfield dimensions"))
	}

	fillPits(hf)
	flow := computeFlowDirections(hf)
	computeAccumulation(hf, flow)

	iterations := erosionIterationsByClass[terrainClass]
	angleOfRepose := angleOfReposeByClass[terrainClass]
	for i := 0; i < iterations; i++ {
		applyStreamPowerErosion(hf, flow, erodibility)
		applyMassWasting(hf, angleOfRepose)
		fillPits(hf)
		flow = computeFlowDirections(hf)
		computeAccumulation(hf, flow)
	}

	if glacialClass == params.GlacialActive || glacialClass == params.GlacialFormer {
		applyGlacialCarving(hf, flow)
		fillPits(hf)
		flow = computeFlowDirections(hf)
		computeAccumulation(hf, flow)

		if glacialClass == params.GlacialFormer {
			for i := 0; i < 10; i++ {
				applyStreamPowerErosionUniform(hf, flow, 0.5)
				fillPits(hf)
				flow = computeFlowDirections(hf)
				computeAccumulation(hf, flow)
			}
		}
	}

	streams := extractStreamNetwork(flow, terrainClass)
	basins, basinIDs := delineateBasins(hf, flow)

	return Result{Flow: flow, Streams: streams, Basins: basins, BasinIDs: basinIDs}
}

// --- priority-flood pit filling (Barnes 2014) ---

type pfItem struct {
	row, col int
	z        float64
}

type pfHeap []pfItem

func (h pfHeap) Len() int { return len(h) }
func (h pfHeap) Less(i, j int) bool {
	// NaN-aware: NaN never compares less, so it sorts as if equal/largest
	// rather than panicking or corrupting heap order (spec.md §9).
	if math.IsNaN(h[i].z) {
		return false
	}
	if math.IsNaN(h[j].z) {
		return true
	}
	return h[i].z < h[j].z
}
func (h pfHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *pfHeap) Push(x interface{}) { *h = append(*h, x.(pfItem)) }
func (h *pfHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// fillPits raises every interior cell so it has a non-decreasing path to
// the raster edge (spec.md §4.5), in place, using 64-bit working floats.
func fillPits(hf *field.Heightfield) {
	width, height := hf.Width, hf.Height
	if width == 0 || height == 0 {
		return
	}
	visited := make([]bool, width*height)
	work := make([]float64, width*height)
	for i, v := range hf.Data {
		work[i] = float64(v)
	}

	pq := &pfHeap{}
	heap.Init(pq)
	pushEdge := func(row, col int) {
		idx := row*width + col
		if !visited[idx] {
			visited[idx] = true
			heap.Push(pq, pfItem{row, col, work[idx]})
		}
	}
	for col := 0; col < width; col++ {
		pushEdge(0, col)
		pushEdge(height-1, col)
	}
	for row := 0; row < height; row++ {
		pushEdge(row, 0)
		pushEdge(row, width-1)
	}

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pfItem)
		for _, n := range neighbors8(cur.row, cur.col, width, height) {
			idx := n.row*width + n.col
			if visited[idx] {
				continue
			}
			visited[idx] = true
			z := work[idx]
			if z < cur.z {
				z = cur.z
			}
			work[idx] = z
			heap.Push(pq, pfItem{n.row, n.col, z})
		}
	}

	for i, v := range work {
		hf.Data[i] = float32(v)
	}
}

type cellPos struct{ row, col int }

// neighbors8 returns the in-bounds (non-wrapping latitude, wrapping
// longitude) 8-connected neighbours of (row,col).
func neighbors8(row, col, width, height int) []cellPos {
	out := make([]cellPos, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		nr := row + dr
		if nr < 0 || nr >= height {
			continue
		}
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nc := wrapInt(col+dc, width)
			out = append(out, cellPos{nr, nc})
		}
	}
	return out
}

// --- D8 flow direction ---

// computeFlowDirections assigns each cell the steepest-descent D8
// neighbour, code 0 if none is lower (spec.md §4.5).
func computeFlowDirections(hf *field.Heightfield) *field.FlowField {
	width, height := hf.Width, hf.Height
	flow := field.NewFlowField(width, height)
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
			flow.SetDirection(row, col, uint8(best))
		}
	}
	return flow
}

// computeAccumulation walks cells in descending elevation order, summing
// each cell's accumulation into its downstream neighbour (spec.md §4.5).
// This walk is intentionally sequential: it has order-sensitive side
// effects and must not be parallelised (spec.md §5).
func computeAccumulation(hf *field.Heightfield, flow *field.FlowField) {
	width, height := hf.Width, hf.Height
	n := width * height
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sortDescByElevation(order, hf)

	acc := make([]uint32, n)
	for i := range acc {
		acc[i] = 1
	}
	for _, idx := range order {
		row, col := idx/width, idx%width
		dr, dc, ok := flow.Downstream(row, col)
		if !ok {
			continue
		}
		di := dr*width + wrapInt(dc, width)
		if dr < 0 || dr >= height {
			continue
		}
		acc[di] += acc[idx]
	}
	for i, v := range acc {
		flow.Accumulation[i] = v
	}
}

func sortDescByElevation(order []int, hf *field.Heightfield) {
	width := hf.Width
	zOf := func(idx int) float64 { return hf.Get(idx/width, idx%width) }
	sort.Slice(order, func(i, j int) bool { return zOf(order[i]) > zOf(order[j]) })
}

// hornSlope computes the Horn (1981) gradient magnitude at (row,col) over
// the 3x3 neighbourhood, in metres of rise per metre of cellsize run.
func hornSlope(hf *field.Heightfield, row, col int, cellSize float64) float64 {
	width, height := hf.Width, hf.Height
	get := func(dr, dc int) float64 {
		r := row + dr
		if r < 0 {
			r = 0
		}
		if r >= height {
			r = height - 1
		}
		c := wrapInt(col+dc, width)
		return hf.Get(r, c)
	}
	dzdx := ((get(-1, 1) + 2*get(0, 1) + get(1, 1)) - (get(-1, -1) + 2*get(0, -1) + get(1, -1))) / (8 * cellSize)
	dzdy := ((get(1, -1) + 2*get(1, 0) + get(1, 1)) - (get(-1, -1) + 2*get(-1, 0) + get(-1, 1))) / (8 * cellSize)
	return math.Hypot(dzdx, dzdy)
}

// applyStreamPowerErosion implements spec.md §4.5's Howard 1994 model with
// m=0.5, n=1.0, clipping Δz to [-10,0] and floor-clamping post-erosion.
func applyStreamPowerErosion(hf *field.Heightfield, flow *field.FlowField, erodibility *field.ErodibilityField) {
	width, height := hf.Width, hf.Height
	cellSize := hf.CellSizeMeters()
	deltas := make([]float64, width*height)
	for row := 1; row < height-1; row++ {
		for col := 0; col < width; col++ {
			k := erodibility.Get(row, col)
			a := float64(flow.AccumulationAt(row, col))
			s := hornSlope(hf, row, col, cellSize)
			dz := -k * math.Sqrt(a) * s
			if dz < -10 {
				dz = -10
			}
			if dz > 0 {
				dz = 0
			}
			deltas[row*width+col] = dz
		}
	}
	for idx, dz := range deltas {
		row, col := idx/width, idx%width
		z := hf.Get(row, col) + dz
		if z < 0 {
			z = 0
		}
		hf.Set(row, col, z)
	}
}

// applyStreamPowerErosionUniform is the post-glacial re-establishment pass
// of spec.md §4.5, using a fixed K=0.5 for every cell.
func applyStreamPowerErosionUniform(hf *field.Heightfield, flow *field.FlowField, k float64) {
	width, height := hf.Width, hf.Height
	cellSize := hf.CellSizeMeters()
	deltas := make([]float64, width*height)
	for row := 1; row < height-1; row++ {
		for col := 0; col < width; col++ {
			a := float64(flow.AccumulationAt(row, col))
			s := hornSlope(hf, row, col, cellSize)
			dz := -k * math.Sqrt(a) * s
			if dz < -10 {
				dz = -10
			}
			if dz > 0 {
				dz = 0
			}
			deltas[row*width+col] = dz
		}
	}
	for idx, dz := range deltas {
		row, col := idx/width, idx%width
		z := hf.Get(row, col) + dz
		if z < 0 {
			z = 0
		}
		hf.Set(row, col, z)
	}
}

// applyMassWasting implements the slope-threshold transfer of spec.md
// §4.5: cells steeper than tan(angleOfRepose) shed material to their
// steepest downslope neighbour until the post-transfer slope matches the
// threshold. The walk order (descending elevation) is order-sensitive and
// must stay sequential (spec.md §5).
func applyMassWasting(hf *field.Heightfield, angleOfReposeDeg float64) {
	width, height := hf.Width, hf.Height
	cellSize := hf.CellSizeMeters()
	tanRepose := math.Tan(angleOfReposeDeg * math.Pi / 180)

	n := width * height
	order := make([]int, 0, n)
	for row := 1; row < height-1; row++ {
		for col := 0; col < width; col++ {
			order = append(order, row*width+col)
		}
	}
	sortDescByElevation(order, hf)

	for _, idx := range order {
		row, col := idx/width, idx%width
		z0 := hf.Get(row, col)

		bestRow, bestCol := -1, -1
		bestDist := 1.0
		bestDrop := 0.0
		bestGrad := 0.0
		for code := 1; code <= 8; code++ {
			off := field.D8Offsets[code-1]
			nr, nc := row+off[0], col+off[1]
			if nr < 0 || nr >= height {
				continue
			}
			nc = wrapInt(nc, width)
			z1 := hf.Get(nr, nc)
			d := field.D8Distance(code)
			if grad := (z0 - z1) / d; grad > bestGrad {
				bestGrad = grad
				bestDrop = z0 - z1
				bestRow, bestCol = nr, nc
				bestDist = d
			}
		}
		if bestRow < 0 {
			continue
		}
		dist := bestDist * cellSize
		slope := bestDrop / dist
		if slope <= tanRepose {
			continue
		}
		z1 := hf.Get(bestRow, bestCol)
		transfer := ((z0 - z1) - tanRepose*dist) / 2
		if transfer <= 0 {
			continue
		}
		hf.Set(row, col, z0-transfer)
		hf.Set(bestRow, bestCol, z1+transfer)
	}
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
