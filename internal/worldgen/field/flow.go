package field

// FlowField is the D8 flow-direction and accumulation grid of spec.md §3.
// Direction codes: 0 = sink/flat, 1..8 = N, NE, E, SE, S, SW, W, NW.
// Invariant: every cell is either a sink (code 0) or points to an
// in-bounds neighbour.
type FlowField struct {
	Width, Height int
	Direction     []uint8
	Accumulation  []uint32
}

// D8 neighbour offsets in (drow, dcol) order matching direction codes 1..8:
// N, NE, E, SE, S, SW, W, NW. Row 0 is north, so "north" is drow=-1.
var D8Offsets = [8][2]int{
	{-1, 0},  // N
	{-1, 1},  // NE
	{0, 1},   // E
	{1, 1},   // SE
	{1, 0},   // S
	{1, -1},  // SW
	{0, -1},  // W
	{-1, -1}, // NW
}

// D8Distance returns the cardinal/diagonal step distance for direction
// code 1..8 (1 for cardinal, sqrt(2) for diagonal).
func D8Distance(code int) float64 {
	switch code {
	case 1, 3, 5, 7:
		return 1.0
	case 2, 4, 6, 8:
		return 1.4142135623730951
	default:
		return 1.0
	}
}

func NewFlowField(width, height int) *FlowField {
	acc := make([]uint32, width*height)
	for i := range acc {
		acc[i] = 1
	}
	return &FlowField{
		Width: width, Height: height,
		Direction:    make([]uint8, width*height),
		Accumulation: acc,
	}
}

func (f *FlowField) idx(row, col int) int { return wrapIndex(row, col, f.Width, f.Height) }

func (f *FlowField) DirectionAt(row, col int) uint8 {
	if f.Width == 0 || f.Height == 0 {
		return 0
	}
	return f.Direction[f.idx(row, col)]
}

func (f *FlowField) SetDirection(row, col int, code uint8) {
	if f.Width == 0 || f.Height == 0 {
		return
	}
	f.Direction[f.idx(row, col)] = code
}

func (f *FlowField) AccumulationAt(row, col int) uint32 {
	if f.Width == 0 || f.Height == 0 {
		return 0
	}
	return f.Accumulation[f.idx(row, col)]
}

func (f *FlowField) SetAccumulation(row, col int, v uint32) {
	if f.Width == 0 || f.Height == 0 {
		return
	}
	f.Accumulation[f.idx(row, col)] = v
}

// Downstream returns the (row, col) a cell's flow direction points to, and
// false if the cell is a sink (direction code 0).
func (f *FlowField) Downstream(row, col int) (drow, dcol int, ok bool) {
	code := f.DirectionAt(row, col)
	if code == 0 {
		return 0, 0, false
	}
	off := D8Offsets[code-1]
	return row + off[0], col + off[1], true
}

// StreamNetwork marks stream cells, their Strahler order, and the maximum
// order present (spec.md §3).
type StreamNetwork struct {
	Width, Height int
	IsStream      []bool
	StrahlerOrder []uint8
	MaxOrder      uint8
}

func NewStreamNetwork(width, height int) *StreamNetwork {
	return &StreamNetwork{
		Width: width, Height: height,
		IsStream:      make([]bool, width*height),
		StrahlerOrder: make([]uint8, width*height),
	}
}

func (s *StreamNetwork) idx(row, col int) int { return wrapIndex(row, col, s.Width, s.Height) }

func (s *StreamNetwork) IsStreamAt(row, col int) bool {
	if s.Width == 0 || s.Height == 0 {
		return false
	}
	return s.IsStream[s.idx(row, col)]
}

// DrainageBasin is a per-basin summary record (spec.md §3).
type DrainageBasin struct {
	ID                  int
	CellCount           int
	HypsometricIntegral float64
	ElongationRatio     float64
	Compactness         float64
	MeanSlope           float64
}
