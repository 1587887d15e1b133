package qr

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/makiuchi-d/gozxing/qrcode/decoder"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var (
	red   = color.RGBA{0xff, 0x00, 0x00, 0xff}
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	black = color.RGBA{0x00, 0x00, 0x00, 0xff}
	gray  = color.RGBA{0x80, 0x80, 0x80, 0xff}
	pink  = color.RGBA{0xff, 0xd8, 0xd8, 0xff}
)

// fixedFont always resolves to basicfont so caption metrics are stable.
type fixedFont struct{}

func (fixedFont) Resolve(*Resource, string, int) font.Face { return basicfont.Face7x13 }

func filled(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodePNG(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return img
}

// scan reads the QR code in img back to text.
func scan(t *testing.T, img image.Image) string {
	t.Helper()
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	res, err := zxqr.NewQRCodeReader().Decode(bmp, hints)
	require.NoError(t, err)
	return res.GetText()
}

// decodeMatrix decodes the module matrix of sym directly, with no image detection.
func decodeMatrix(t *testing.T, sym *EncodedSymbol) string {
	t.Helper()
	bits, err := gozxing.NewSquareBitMatrix(sym.Dimension)
	require.NoError(t, err)
	for y := 0; y < sym.Dimension; y++ {
		for x := 0; x < sym.Dimension; x++ {
			if sym.Dark(x, y) {
				bits.Set(x, y)
			}
		}
	}
	res, err := decoder.NewDecoder().Decode(bits, nil)
	require.NoError(t, err)
	return res.GetText()
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}
