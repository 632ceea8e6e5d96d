package mesh

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpPaletteDebugPNGProducesDecodablePNGSizedByScale(t *testing.T) {
	palette := []voxelColor{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}}
	var buf bytes.Buffer

	err := DumpPaletteDebugPNG(palette, 4, &buf)

	require.NoError(t, err)
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, len(palette)*4, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
}

func TestDumpPaletteDebugPNGHandlesEmptyPalette(t *testing.T) {
	var buf bytes.Buffer

	err := DumpPaletteDebugPNG(nil, 2, &buf)

	require.NoError(t, err)
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
}
