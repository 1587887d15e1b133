package qr

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// Preset is a named color scheme.
type Preset int

const (
	PresetClassic Preset = iota
	PresetBusinessBlue
	PresetVibrantOrange
	PresetNaturalGreen
	PresetRomanticPink
	PresetTechPurple
	PresetCustom
)

// PresetStyle is the resolved entry of the preset table.
type PresetStyle struct {
	Name        string `json:"name"`
	Foreground  string `json:"foreground"`
	Background  string `json:"background"`
	Description string `json:"description"`
}

var presetTable = [...]PresetStyle{
	PresetClassic:       {"classic", "#000000", "#FFFFFF", "traditional QR style"},
	PresetBusinessBlue:  {"business-blue", "#1E3A8A", "#F0F9FF", "professional business style"},
	PresetVibrantOrange: {"vibrant-orange", "#EA580C", "#FFF7ED", "energetic warm tones"},
	PresetNaturalGreen:  {"natural-green", "#15803D", "#F0FDF4", "fresh natural style"},
	PresetRomanticPink:  {"romantic-pink", "#BE185D", "#FDF2F8", "warm romantic mood"},
	PresetTechPurple:    {"tech-purple", "#6B21A8", "#FAF5FF", "futuristic tech look"},
	PresetCustom:        {"custom", "#000000", "#FFFFFF", "fully custom colors"},
}

// LookupPreset returns the table entry for p, falling back to classic.
func LookupPreset(p Preset) PresetStyle {
	if p < 0 || int(p) >= len(presetTable) {
		return presetTable[PresetClassic]
	}
	return presetTable[p]
}

// Presets lists every preset in display order.
func Presets() []PresetStyle {
	out := make([]PresetStyle, len(presetTable))
	copy(out, presetTable[:])
	return out
}

func (p Preset) String() string { return LookupPreset(p).Name }

// ParsePreset maps a preset name to its value. Unknown names fall back to classic.
func ParsePreset(s string) Preset {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, ps := range presetTable {
		if ps.Name == s {
			return Preset(i)
		}
	}
	return PresetClassic
}

// ParseHexColor parses "#RGB" or "#RRGGBB"; the leading '#' is optional.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, errors.Wrapf(ErrInvalidColor, "%q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(ErrInvalidColor, "%q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Palette holds the concrete colors of one generation.
type Palette struct {
	Foreground color.RGBA
	Background color.RGBA
}

// ResolveColors picks the preset colors, or the parsed overrides for custom.
func ResolveColors(cfg GenerationConfig) (Palette, error) {
	ps := LookupPreset(cfg.Preset)
	fg, bg := ps.Foreground, ps.Background
	if cfg.Preset == PresetCustom {
		if cfg.Foreground != "" {
			fg = cfg.Foreground
		}
		if cfg.Background != "" {
			bg = cfg.Background
		}
	}
	var (
		p   Palette
		err error
	)
	if p.Foreground, err = ParseHexColor(fg); err != nil {
		return Palette{}, errors.Wrap(err, "foreground")
	}
	if p.Background, err = ParseHexColor(bg); err != nil {
		return Palette{}, errors.Wrap(err, "background")
	}
	return p, nil
}

// DrawerStyle selects how a single dark module is drawn.
type DrawerStyle int

const (
	DrawerSquare DrawerStyle = iota
	DrawerCircle
	DrawerRounded
	DrawerGappedSquare
	DrawerVerticalBars
	DrawerHorizontalBars
)

var drawerNames = [...]string{
	DrawerSquare:         "square",
	DrawerCircle:         "circle",
	DrawerRounded:        "rounded",
	DrawerGappedSquare:   "gapped",
	DrawerVerticalBars:   "vertical",
	DrawerHorizontalBars: "horizontal",
}

func (d DrawerStyle) String() string {
	if d < 0 || int(d) >= len(drawerNames) {
		return drawerNames[DrawerSquare]
	}
	return drawerNames[d]
}

// ParseDrawer maps a drawer name to its style. Unknown names fall back to square.
func ParseDrawer(s string) DrawerStyle {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range drawerNames {
		if n == s {
			return DrawerStyle(i)
		}
	}
	return DrawerSquare
}

const (
	// gappedRatio is the share of the module edge a gapped square covers.
	gappedRatio = 0.8
	// barRatio is the share of the module edge a bar covers across its axis.
	barRatio = 0.8
	// roundedRatio is the corner radius relative to the module edge.
	roundedRatio = 0.3
)

// moduleShape implements standard.IShape. Light modules and finder patterns are
// always full squares; the style only changes dark data modules.
type moduleShape struct {
	style DrawerStyle
	fg    color.RGBA
}

// ShapeFor returns the writer shape for d.
func ShapeFor(d DrawerStyle, fg color.RGBA) standard.IShape {
	return &moduleShape{style: d, fg: fg}
}

func (s *moduleShape) Draw(ctx *standard.DrawContext) {
	x, y := ctx.UpperLeft()
	w, h := ctx.Edge()
	fw, fh := float64(w), float64(h)
	if !s.isDark(ctx.Color()) {
		fillSquare(ctx, x, y, fw, fh)
		return
	}
	ctx.SetColor(ctx.Color())
	switch s.style {
	case DrawerCircle:
		ctx.DrawEllipse(x+fw/2, y+fh/2, fw/2, fh/2)
	case DrawerRounded:
		ctx.DrawRoundedRectangle(x, y, fw, fh, fw*roundedRatio)
	case DrawerGappedSquare:
		dx, dy := fw*(1-gappedRatio)/2, fh*(1-gappedRatio)/2
		ctx.DrawRectangle(x+dx, y+dy, fw*gappedRatio, fh*gappedRatio)
	case DrawerVerticalBars:
		dx := fw * (1 - barRatio) / 2
		ctx.DrawRectangle(x+dx, y, fw*barRatio, fh)
	case DrawerHorizontalBars:
		dy := fh * (1 - barRatio) / 2
		ctx.DrawRectangle(x, y+dy, fw, fh*barRatio)
	default:
		ctx.DrawRectangle(x, y, fw, fh)
	}
	ctx.Fill()
}

func (s *moduleShape) DrawFinder(ctx *standard.DrawContext) {
	x, y := ctx.UpperLeft()
	w, h := ctx.Edge()
	fillSquare(ctx, x, y, float64(w), float64(h))
}

func (s *moduleShape) isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	fr, fg, fb, _ := s.fg.RGBA()
	return r == fr && g == fg && b == fb
}

func fillSquare(ctx *standard.DrawContext, x, y, w, h float64) {
	ctx.DrawRectangle(x, y, w, h)
	ctx.SetColor(ctx.Color())
	ctx.Fill()
}
