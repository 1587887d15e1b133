package qr

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	"github.com/pkg/errors"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// RenderOptions control rasterization of a symbol.
type RenderOptions struct {
	ModulePixelSize int
	BorderModules   int
	Drawer          DrawerStyle
	Palette         Palette
}

// bufferCloser lets the standard writer encode into memory.
type bufferCloser struct {
	*bytes.Buffer
}

func (bufferCloser) Close() error { return nil }

// Render rasterizes sym to an opaque RGB image of
// (Dimension + 2*BorderModules) * ModulePixelSize pixels per side.
func Render(sym *EncodedSymbol, opt RenderOptions) (*image.RGBA, error) {
	if opt.ModulePixelSize < 1 || opt.ModulePixelSize > maxModulePixelSize {
		return nil, errors.Wrapf(ErrInvalidConfig, "module pixel size %d", opt.ModulePixelSize)
	}
	if opt.BorderModules < 0 || opt.BorderModules > maxBorderModules {
		return nil, errors.Wrapf(ErrInvalidConfig, "border %d", opt.BorderModules)
	}
	side := (sym.Dimension + 2*opt.BorderModules) * opt.ModulePixelSize
	if side > MaxImageSide {
		return nil, errors.Wrapf(ErrInvalidConfig, "version %d at %dpx per module is %dpx wide, the limit is %dpx",
			sym.Version, opt.ModulePixelSize, side, MaxImageSide)
	}
	buf := &bytes.Buffer{}
	w := standard.NewWithWriter(bufferCloser{buf},
		standard.WithQRWidth(uint8(opt.ModulePixelSize)),
		standard.WithBorderWidth(opt.BorderModules*opt.ModulePixelSize),
		standard.WithBgColor(opt.Palette.Background),
		standard.WithFgColor(opt.Palette.Foreground),
		standard.WithCustomShape(ShapeFor(opt.Drawer, opt.Palette.Foreground)),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := sym.code.Save(w); err != nil {
		return nil, errors.Wrap(err, "render qr")
	}
	src, err := png.Decode(buf)
	if err != nil {
		return nil, errors.Wrap(err, "decode rendered qr")
	}

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(opt.Palette.Background), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
	return dst, nil
}
