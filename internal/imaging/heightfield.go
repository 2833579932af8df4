// Package imaging is the optional diagnostic PNG export collaborator of
// spec.md §6.5: the core emits raw fields, this package renders them. No
// rendering contract is imposed on the core; grounded in the teacher's
// sibling packages' plain image/png usage rather than a dedicated mapping
// library, since this collaborator's whole job is a flat greyscale/ramp
// raster dump, not a projected or annotated map.
package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"planetforge/internal/worldgen/field"
)

// WriteHeightfieldPNG renders hf as a greyscale PNG, linearly mapping its
// elevation range onto [0,255]. A flat field renders as uniform mid-grey.
func WriteHeightfieldPNG(hf *field.Heightfield, path string) error {
	img := image.NewGray(image.Rect(0, 0, hf.Width, hf.Height))

	minZ, maxZ := hf.MinMax()
	span := maxZ - minZ
	for row := 0; row < hf.Height; row++ {
		for col := 0; col < hf.Width; col++ {
			var v uint8
			if span < 1e-9 {
				v = 128
			} else {
				norm := (hf.Get(row, col) - minZ) / span
				v = uint8(clamp01(norm) * 255)
			}
			img.SetGray(col, row, color.Gray{Y: v})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
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
