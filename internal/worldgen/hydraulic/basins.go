package hydraulic

import (
	"math"
	"sort"

	"planetforge/internal/worldgen/field"
	"planetforge/internal/worldgen/params"
)

// extractStreamNetwork marks stream cells by the class-dependent
// accumulation threshold, then assigns Strahler order by walking stream
// cells in ascending accumulation order (spec.md §4.5). A cell with zero
// donors is order 1; if the maximum donor order appears exactly once it is
// inherited, otherwise the order increases by one.
func extractStreamNetwork(flow *field.FlowField, terrainClass params.TerrainClass) *field.StreamNetwork {
	width, height := flow.Width, flow.Height
	sn := field.NewStreamNetwork(width, height)
	threshold := streamThresholdByClass[terrainClass]

	var streamCells []streamAccEntry
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			idx := row*width + col
			if float64(flow.AccumulationAt(row, col)) >= threshold {
				sn.IsStream[idx] = true
				streamCells = append(streamCells, streamAccEntry{idx, flow.AccumulationAt(row, col)})
			}
		}
	}

	sortAscByAccumulation(streamCells)

	donorOrders := make(map[int][]uint8, len(streamCells))
	for _, sc := range streamCells {
		row, col := sc.idx/width, sc.idx%width
		var order uint8
		donors := donorOrders[sc.idx]
		if len(donors) == 0 {
			order = 1
		} else {
			maxOrder := donors[0]
			count := 0
			for _, o := range donors {
				if o > maxOrder {
					maxOrder = o
				}
			}
			for _, o := range donors {
				if o == maxOrder {
					count++
				}
			}
			if count >= 2 {
				order = maxOrder + 1
			} else {
				order = maxOrder
			}
		}
		sn.StrahlerOrder[sc.idx] = order
		if order > sn.MaxOrder {
			sn.MaxOrder = order
		}

		dr, dc, ok := flow.Downstream(row, col)
		if !ok {
			continue
		}
		if dr < 0 || dr >= height {
			continue
		}
		dIdx := dr*width + wrapInt(dc, width)
		if sn.IsStream[dIdx] {
			donorOrders[dIdx] = append(donorOrders[dIdx], order)
		}
	}

	return sn
}

type streamAccEntry struct {
	idx int
	acc uint32
}

func sortAscByAccumulation(cells []streamAccEntry) {
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].acc < cells[j].acc })
}

// delineateBasins identifies outlets, breadth-first walks the inverse flow
// graph from each, and computes per-basin statistics (spec.md §4.5).
func delineateBasins(hf *field.Heightfield, flow *field.FlowField) ([]field.DrainageBasin, []int) {
	width, height := hf.Width, hf.Height
	n := width * height
	basinID := make([]int, n)
	for i := range basinID {
		basinID[i] = -1
	}

	donors := buildInverseFlowGraph(flow, width, height)

	var basins []field.DrainageBasin
	nextID := 0

	isOutlet := func(row, col int) bool {
		dr, _, ok := flow.Downstream(row, col)
		if !ok {
			return true
		}
		return dr < 0 || dr >= height
	}

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			idx := row*width + col
			if basinID[idx] != -1 || !isOutlet(row, col) {
				continue
			}
			id := nextID
			nextID++
			cells := bfsCollect(idx, donors, basinID, id)
			basins = append(basins, summarizeBasin(hf, id, cells, width, height))
		}
	}

	// Any unreached cells (shouldn't normally occur given every cell has a
	// path to an outlet) form singleton basins.
	for idx, b := range basinID {
		if b != -1 {
			continue
		}
		id := nextID
		nextID++
		basinID[idx] = id
		basins = append(basins, summarizeBasin(hf, id, []int{idx}, width, height))
	}

	return basins, basinID
}

func buildInverseFlowGraph(flow *field.FlowField, width, height int) map[int][]int {
	donors := make(map[int][]int)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			dr, dc, ok := flow.Downstream(row, col)
			if !ok {
				continue
			}
			if dr < 0 || dr >= height {
				continue
			}
			dIdx := dr*width + wrapInt(dc, width)
			idx := row*width + col
			donors[dIdx] = append(donors[dIdx], idx)
		}
	}
	return donors
}

func bfsCollect(start int, donors map[int][]int, basinID []int, id int) []int {
	queue := []int{start}
	basinID[start] = id
	cells := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range donors[cur] {
			if basinID[d] != -1 {
				continue
			}
			basinID[d] = id
			cells = append(cells, d)
			queue = append(queue, d)
		}
	}
	return cells
}

func summarizeBasin(hf *field.Heightfield, id int, cells []int, width, height int) field.DrainageBasin {
	minZ, maxZ := hf.Get(cells[0]/width, cells[0]%width), hf.Get(cells[0]/width, cells[0]%width)
	sumZ := 0.0
	minRow, maxRow := cells[0]/width, cells[0]/width
	minCol, maxCol := cells[0]%width, cells[0]%width
	cellSize := hf.CellSizeMeters()
	sumSlope := 0.0

	for _, idx := range cells {
		row, col := idx/width, idx%width
		z := hf.Get(row, col)
		if z < minZ {
			minZ = z
		}
		if z > maxZ {
			maxZ = z
		}
		sumZ += z
		if row < minRow {
			minRow = row
		}
		if row > maxRow {
			maxRow = row
		}
		if col < minCol {
			minCol = col
		}
		if col > maxCol {
			maxCol = col
		}
		sumSlope += hornSlope(hf, row, col, cellSize)
	}

	area := len(cells)
	meanZ := sumZ / float64(area)
	hi := 0.5
	if maxZ-minZ >= 1.0 {
		hi = (meanZ - minZ) / (maxZ - minZ)
		if hi < 0 {
			hi = 0
		}
		if hi > 1 {
			hi = 1
		}
	}

	perimeter := computePerimeter(cells, width, height)
	circularity := 0.0
	if perimeter > 0 {
		circularity = 4 * math.Pi * float64(area) / (perimeter * perimeter)
	}

	bboxLongSide := float64(maxRow - minRow + 1)
	if w := float64(maxCol - minCol + 1); w > bboxLongSide {
		bboxLongSide = w
	}
	elongation := 0.0
	if bboxLongSide > 0 {
		elongation = (2 * math.Sqrt(float64(area)/math.Pi)) / bboxLongSide
	}

	return field.DrainageBasin{
		ID:                  id,
		CellCount:           area,
		HypsometricIntegral: hi,
		ElongationRatio:     elongation,
		Compactness:         circularity,
		MeanSlope:           sumSlope / float64(area),
	}
}

// computePerimeter counts 4-connected boundary edges (edges shared with a
// cell outside the basin, or the raster's north/south edge).
func computePerimeter(cells []int, width, height int) float64 {
	set := make(map[int]bool, len(cells))
	for _, c := range cells {
		set[c] = true
	}

	perimeter := 0.0
	neighbors := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for _, idx := range cells {
		row, col := idx/width, idx%width
		for _, off := range neighbors {
			nr, nc := row+off[0], col+off[1]
			if nr < 0 || nr >= height {
				perimeter++
				continue
			}
			nc = wrapInt(nc, width)
			if !set[nr*width+nc] {
				perimeter++
			}
		}
	}
	return perimeter
}
