package qr

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/draw"
	"image/png"
	"math"

	"github.com/pkg/errors"
)

const (
	pngSignatureLen = 8
	// ihdrChunkLen is length(4) + type(4) + data(13) + crc(4).
	ihdrChunkLen = 25
	inchMetres   = 0.0254
)

var pngEncoder = &png.Encoder{CompressionLevel: png.DefaultCompression}

// EncodePNG writes img as an opaque RGB PNG carrying dpi in a pHYs chunk.
func EncodePNG(img image.Image, dpi int) ([]byte, error) {
	if dpi < 1 {
		return nil, errors.Wrapf(ErrInvalidConfig, "dpi %d", dpi)
	}
	rgba := opaqueRGBA(img)
	var buf bytes.Buffer
	if err := pngEncoder.Encode(&buf, rgba); err != nil {
		return nil, errors.Wrap(err, "encode png")
	}
	raw := buf.Bytes()
	if len(raw) < pngSignatureLen+ihdrChunkLen {
		return nil, errors.New("encode png: output too short")
	}
	split := pngSignatureLen + ihdrChunkLen
	out := make([]byte, 0, len(raw)+21)
	out = append(out, raw[:split]...)
	out = append(out, physChunk(dpi)...)
	out = append(out, raw[split:]...)
	return out, nil
}

// physChunk is a pHYs chunk with the same density on both axes, in pixels per metre.
func physChunk(dpi int) []byte {
	ppm := uint32(math.Round(float64(dpi) / inchMetres))
	data := make([]byte, 9)
	binary.BigEndian.PutUint32(data[0:4], ppm)
	binary.BigEndian.PutUint32(data[4:8], ppm)
	data[8] = 1

	chunk := make([]byte, 0, 4+4+len(data)+4)
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(data)))
	chunk = append(chunk, "pHYs"...)
	chunk = append(chunk, data...)
	crc := crc32.NewIEEE()
	crc.Write(chunk[4:])
	return binary.BigEndian.AppendUint32(chunk, crc.Sum32())
}

// ReadDPI returns the horizontal density of a PNG produced by EncodePNG.
func ReadDPI(b []byte) (int, error) {
	i := bytes.Index(b, []byte("pHYs"))
	if i < 4 || len(b) < i+4+9 {
		return 0, errors.New("png has no pHYs chunk")
	}
	data := b[i+4 : i+4+9]
	if data[8] != 1 {
		return 0, errors.Errorf("pHYs unit %d is not metres", data[8])
	}
	ppm := binary.BigEndian.Uint32(data[0:4])
	return int(math.Round(float64(ppm) * inchMetres)), nil
}

// opaqueRGBA flattens img onto an opaque RGBA so the encoder emits RGB.
func opaqueRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}
