// Package field holds the shared raster/spherical data model of spec.md §3:
// the Heightfield, RegimeField, GrainField, FlowField, StreamNetwork, and
// DrainageBasin types threaded between pipeline stages, grounded in the
// teacher's geography.Heightmap (row-major float slice keyed by width) but
// generalized to carry the geographic bounds and per-cell metadata the
// spherical pipeline needs.
package field

import "math"

// Heightfield is a row-major ordered sequence of elevations in metres, plus
// the grid dimensions and geographic bounds it covers. Invariant:
// len(Data) == Width*Height.
type Heightfield struct {
	Width, Height                  int
	Data                           []float32
	MinLat, MaxLat, MinLon, MaxLon float64
}

// NewHeightfield allocates a zero-valued heightfield covering the full
// globe at cell-centred sampling (spec.md §3): row 0 is the northernmost
// row, row Height-1 the southernmost.
func NewHeightfield(width, height int) *Heightfield {
	return &Heightfield{
		Width: width, Height: height,
		Data:   make([]float32, width*height),
		MinLat: -90, MaxLat: 90, MinLon: -180, MaxLon: 180,
	}
}

// Index returns the flat row-major index of (row, col), wrapping longitude
// across the dateline and clamping latitude at the poles.
func (h *Heightfield) Index(row, col int) int {
	row = clampInt(row, 0, h.Height-1)
	col = wrapInt(col, h.Width)
	return row*h.Width + col
}

// Get returns the elevation at (row, col). Out-of-range rows clamp to the
// nearest pole row; columns wrap around the globe.
func (h *Heightfield) Get(row, col int) float64 {
	if h.Width == 0 || h.Height == 0 {
		return 0
	}
	return float64(h.Data[h.Index(row, col)])
}

// Set writes the elevation at (row, col).
func (h *Heightfield) Set(row, col int, v float64) {
	if h.Width == 0 || h.Height == 0 {
		return
	}
	h.Data[h.Index(row, col)] = float32(v)
}

// CellLatLon returns the cell-centred latitude/longitude in degrees for
// (row, col), per spec.md §3's sampling formula.
func (h *Heightfield) CellLatLon(row, col int) (lat, lon float64) {
	lat = 90 - (float64(row)+0.5)/float64(h.Height)*180
	lon = -180 + (float64(col)+0.5)/float64(h.Width)*360
	return lat, lon
}

// CellAt returns the (row, col) of the cell containing the given
// latitude/longitude in degrees, the inverse of CellLatLon at cell
// centres. Latitude clamps to the pole rows; longitude wraps.
func (h *Heightfield) CellAt(lat, lon float64) (row, col int) {
	if h.Width == 0 || h.Height == 0 {
		return 0, 0
	}
	row = int(math.Floor((90 - lat) / 180 * float64(h.Height)))
	col = int(math.Floor((lon + 180) / 360 * float64(h.Width)))
	return clampInt(row, 0, h.Height-1), wrapInt(col, h.Width)
}

// Sample performs bilinear interpolation at the given fractional row/col.
// Defined only over the closed bounds [0,Height-1] x [0,Width-1] (with
// longitude wrap); ok is false outside that range, matching spec.md §7's
// "bilinear sampler returns no value without aborting" contract.
func (h *Heightfield) Sample(row, col float64) (value float64, ok bool) {
	if h.Width == 0 || h.Height == 0 {
		return 0, false
	}
	if row < 0 || row > float64(h.Height-1) {
		return 0, false
	}
	r0 := int(math.Floor(row))
	r1 := r0 + 1
	if r1 > h.Height-1 {
		r1 = h.Height - 1
	}
	tr := row - float64(r0)

	c0 := int(math.Floor(col))
	c1 := c0 + 1
	tc := col - float64(c0)

	v00 := h.Get(r0, c0)
	v01 := h.Get(r0, c1)
	v10 := h.Get(r1, c0)
	v11 := h.Get(r1, c1)

	top := v00*(1-tc) + v01*tc
	bottom := v10*(1-tc) + v11*tc
	return top*(1-tr) + bottom*tr, true
}

// CellSizeMeters returns the isotropic-approximated cell size in metres,
// using the geographic bounds and a mid-latitude cosine correction, with a
// 90m floor for degenerate bounds (spec.md §3).
func (h *Heightfield) CellSizeMeters() float64 {
	const earthRadius = 6371000.0
	if h.Width == 0 || h.Height == 0 {
		return 90
	}
	latSpanRad := (h.MaxLat - h.MinLat) * math.Pi / 180
	lonSpanRad := (h.MaxLon - h.MinLon) * math.Pi / 180
	midLatRad := ((h.MaxLat + h.MinLat) / 2) * math.Pi / 180

	dLat := earthRadius * latSpanRad / float64(h.Height)
	dLon := earthRadius * lonSpanRad * math.Cos(midLatRad) / float64(h.Width)

	size := (dLat + dLon) / 2
	if size < 90 || math.IsNaN(size) {
		return 90
	}
	return size
}

// MinMax returns the minimum and maximum elevation values, or (0,0) for an
// empty field.
func (h *Heightfield) MinMax() (min, max float64) {
	if len(h.Data) == 0 {
		return 0, 0
	}
	min, max = float64(h.Data[0]), float64(h.Data[0])
	for _, v := range h.Data {
		fv := float64(v)
		if fv < min {
			min = fv
		}
		if fv > max {
			max = fv
		}
	}
	return min, max
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
