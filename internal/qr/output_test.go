package qr

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePNGWritesDPI(t *testing.T) {
	for _, dpi := range []int{72, 96, 300, 600} {
		b, err := EncodePNG(filled(8, 8, red), dpi)
		require.NoError(t, err)
		got, err := ReadDPI(b)
		require.NoError(t, err)
		assert.Equal(t, dpi, got)

		img := decodePNG(t, b)
		assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
	}
}

func TestEncodePNGIsOpaqueRGB(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(1, 1, color.NRGBA{R: 0xff, A: 0x40})

	b, err := EncodePNG(src, 300)
	require.NoError(t, err)
	// IHDR color type byte: 2 is truecolor without alpha.
	assert.Equal(t, byte(2), b[25])

	img := decodePNG(t, b)
	_, _, _, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestEncodePNGRejectsBadDPI(t *testing.T) {
	_, err := EncodePNG(filled(1, 1, red), 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPhysChunk(t *testing.T) {
	c := physChunk(300)
	require.Len(t, c, 21)
	assert.Equal(t, "pHYs", string(c[4:8]))
	// 300 dpi is 11811 pixels per metre.
	assert.Equal(t, []byte{0, 0, 0x2e, 0x23}, c[8:12])
	assert.Equal(t, byte(1), c[16])
}

func TestReadDPIWithoutChunk(t *testing.T) {
	_, err := ReadDPI(pngBytes(t, filled(2, 2, red)))
	assert.Error(t, err)
}

func TestReadDPIRejectsUnknownUnit(t *testing.T) {
	b, err := EncodePNG(filled(2, 2, red), 300)
	require.NoError(t, err)
	i := bytes.Index(b, []byte("pHYs"))
	require.Positive(t, i)
	b[i+4+8] = 0

	_, err = ReadDPI(b)
	require.Error(t, err)
	assert.EqualError(t, err, "pHYs unit 0 is not metres")
}
