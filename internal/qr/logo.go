package qr

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// logoInset is the background margin around the logo on every side.
const logoInset = 10

// LoadLogo decodes a PNG, JPEG, GIF or SVG logo. SVG input is rasterized so
// that it fits a footprint x footprint square.
func LoadLogo(res *Resource, footprint int) (image.Image, error) {
	data, err := res.ReadAll()
	if err != nil {
		return nil, err
	}
	mt := mimetype.Detect(data)
	if mt.Is("image/svg+xml") {
		return rasterizeSVG(data, footprint)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrAssetUnavailable, "decode logo %s (%s): %v", res.Name, mt.String(), err)
	}
	return img, nil
}

func rasterizeSVG(data []byte, footprint int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrAssetUnavailable, "parse svg logo: %v", err)
	}
	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		vw, vh = float64(footprint), float64(footprint)
	}
	scale := float64(footprint) / vw
	if s := float64(footprint) / vh; s < scale {
		scale = s
	}
	w, h := int(vw*scale), int(vh*scale)
	if w < 1 || h < 1 {
		return nil, errors.Wrap(ErrAssetUnavailable, "svg logo has no drawable size")
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return rgba, nil
}

// CompositeLogo pastes logo, shrunk to sizePercent of the image width and set
// on a background square with a 10px inset, in the center of img.
// It returns false when nothing was drawn.
func CompositeLogo(img *image.RGBA, logo image.Image, sizePercent int, bg color.RGBA) bool {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	footprint := logoFootprint(w, sizePercent)
	if footprint <= 0 || logo == nil {
		return false
	}
	scaled := imaging.Fit(logo, footprint, footprint, imaging.Lanczos)
	lw, lh := scaled.Bounds().Dx(), scaled.Bounds().Dy()
	if lw == 0 || lh == 0 {
		return false
	}

	backing := imaging.New(lw+2*logoInset, lh+2*logoInset, color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: 0xff})
	backing = imaging.Overlay(backing, scaled, image.Pt(logoInset, logoInset), 1.0)

	bw, bh := backing.Bounds().Dx(), backing.Bounds().Dy()
	at := image.Pt((w-bw)/2, (h-bh)/2).Add(img.Bounds().Min)
	draw.Draw(img, image.Rectangle{Min: at, Max: at.Add(image.Pt(bw, bh))}, backing, image.Point{}, draw.Src)
	return true
}

// logoFootprint is floor(width * percent / 100).
func logoFootprint(width, percent int) int {
	return width * percent / 100
}
