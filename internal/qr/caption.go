package qr

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
)

// CaptionLayout is the vertical growth needed for the caption bands.
type CaptionLayout struct {
	BorderPx     int
	TopGrowth    int
	BottomGrowth int
}

// LayoutCaption computes how much the canvas grows on each side. A side with
// textHeight 0 has no caption. Captions that fit in the quiet zone with their
// padding cause no growth.
func LayoutCaption(borderPx, topTextHeight, bottomTextHeight, padding int) CaptionLayout {
	l := CaptionLayout{BorderPx: borderPx}
	if topTextHeight > 0 {
		l.TopGrowth = growth(topTextHeight, padding, borderPx)
	}
	if bottomTextHeight > 0 {
		l.BottomGrowth = growth(bottomTextHeight, padding, borderPx)
	}
	return l
}

func growth(textHeight, padding, borderPx int) int {
	required := textHeight + 2*padding
	if required > borderPx {
		return required - borderPx
	}
	return 0
}

// textBox is the ink bounding box of a string relative to its dot.
type textBox struct {
	minX, minY int
	w, h       int
}

func measure(face font.Face, s string, stroke int) textBox {
	b, _ := font.BoundString(face, s)
	minX, minY := b.Min.X.Floor(), b.Min.Y.Floor()
	return textBox{
		minX: minX,
		minY: minY,
		w:    b.Max.X.Ceil() - minX + 2*stroke,
		h:    b.Max.Y.Ceil() - minY + 2*stroke,
	}
}

// CaptionStyle is the resolved drawing style of both caption lines.
type CaptionStyle struct {
	Face       font.Face
	Color      color.RGBA
	Background color.RGBA
	Bold       bool
	PaddingPx  int
}

// CompositeCaption returns a new canvas with top and bottom drawn in bands
// around img. borderPx is the height of img's quiet zone. A canvas taller than
// MaxImageSide is rejected with ErrInvalidConfig.
func CompositeCaption(img *image.RGBA, top, bottom string, borderPx int, st CaptionStyle) (*image.RGBA, error) {
	stroke := 0
	if st.Bold {
		stroke = 1
	}
	var topBox, bottomBox textBox
	if top != "" {
		topBox = measure(st.Face, top, stroke)
	}
	if bottom != "" {
		bottomBox = measure(st.Face, bottom, stroke)
	}
	layout := LayoutCaption(borderPx, topBox.h, bottomBox.h, st.PaddingPx)

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	newH := h + layout.TopGrowth + layout.BottomGrowth
	if newH > MaxImageSide {
		return nil, errors.Wrapf(ErrInvalidConfig, "captions grow the image to %dpx, the limit is %dpx", newH, MaxImageSide)
	}
	canvas := image.NewRGBA(image.Rect(0, 0, w, newH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(st.Background), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, layout.TopGrowth, w, layout.TopGrowth+h), img, img.Bounds().Min, draw.Src)

	dc := gg.NewContextForRGBA(canvas)
	dc.SetFontFace(st.Face)
	dc.SetColor(st.Color)
	if top != "" {
		band := layout.TopGrowth + borderPx
		drawCentered(dc, top, topBox, w, (band-topBox.h)/2, stroke)
	}
	if bottom != "" {
		start := layout.TopGrowth + h - borderPx
		drawCentered(dc, bottom, bottomBox, w, start+(newH-start-bottomBox.h)/2, stroke)
	}
	return canvas, nil
}

// drawCentered draws s with its ink box horizontally centered in width and
// its top at inkTop. A positive stroke repeats the text at every offset within
// stroke pixels.
func drawCentered(dc *gg.Context, s string, box textBox, width, inkTop, stroke int) {
	inkLeft := (width - box.w) / 2
	x := inkLeft + stroke - box.minX
	y := inkTop + stroke - box.minY
	for dy := -stroke; dy <= stroke; dy++ {
		for dx := -stroke; dx <= stroke; dx++ {
			dc.DrawString(s, float64(x+dx), float64(y+dy))
		}
	}
}
