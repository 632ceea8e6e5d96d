package mesh

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// swatchSize is the edge length in pixels of each palette entry's square
// before upscaling.
const swatchSize = 1

// DumpPaletteDebugPNG renders a chunk's palette as a horizontal strip of
// color swatches, nearest-neighbor upscaled by scale, and writes it as a
// PNG to w. Intended for the debug UI external collaborator named in
// spec.md §1, not for any in-engine asset path.
func DumpPaletteDebugPNG(palette []voxelColor, scale int, w io.Writer) error {
	if scale < 1 {
		scale = 1
	}
	if len(palette) == 0 {
		palette = []voxelColor{{0, 0, 0, 1}}
	}

	src := image.NewRGBA(image.Rect(0, 0, len(palette)*swatchSize, swatchSize))
	for i, c := range palette {
		src.Set(i, 0, toNRGBA(c))
	}

	dstW, dstH := src.Bounds().Dx()*scale, src.Bounds().Dy()*scale
	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	return png.Encode(w, dst)
}

func toNRGBA(c voxelColor) color.NRGBA {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.NRGBA{R: clamp(c[0]), G: clamp(c[1]), B: clamp(c[2]), A: clamp(c[3])}
}
