// Package qr encodes payloads into QR symbols and composites logos and
// captions onto the rendered bitmap.
package qr

import (
	"context"
	"fmt"
	"image"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultLogoPath is the bundled icon used when a logo has no explicit source.
const DefaultLogoPath = "icon.jpg"

// Generator runs the composition pipeline. The zero value is not usable; use New.
type Generator struct {
	log          zerolog.Logger
	fonts        FontResolver
	defaultLogo  string
	batchWorkers int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the logger used for degraded steps.
func WithLogger(l zerolog.Logger) GeneratorOption {
	return func(g *Generator) { g.log = l }
}

// WithFontResolver replaces the caption font strategy.
func WithFontResolver(r FontResolver) GeneratorOption {
	return func(g *Generator) { g.fonts = r }
}

// WithDefaultLogoPath sets the bundled icon location. An empty path disables it.
func WithDefaultLogoPath(path string) GeneratorOption {
	return func(g *Generator) { g.defaultLogo = path }
}

// WithBatchWorkers bounds the number of batch items generated at once.
func WithBatchWorkers(n int) GeneratorOption {
	return func(g *Generator) { g.batchWorkers = n }
}

// New returns a Generator with a no-op logger, DefaultFonts and DefaultLogoPath.
func New(opts ...GeneratorOption) *Generator {
	g := &Generator{
		log:          zerolog.Nop(),
		fonts:        DefaultFonts,
		defaultLogo:  DefaultLogoPath,
		batchWorkers: 4,
	}
	for _, o := range opts {
		o(g)
	}
	if g.batchWorkers < 1 {
		g.batchWorkers = 1
	}
	return g
}

// Result is one generated symbol.
type Result struct {
	Payload  string
	Version  int
	Width    int
	Height   int
	PNG      []byte
	Filename string
}

// Generate runs the pipeline for a single (non-batch) config and returns PNG output.
func (g *Generator) Generate(cfg GenerationConfig) (*Result, error) {
	if cfg.ContentType == ContentBatchURLs {
		return nil, errors.Wrap(ErrInvalidConfig, "use GenerateBatch for batch content")
	}
	img, sym, err := g.compose(cfg)
	if err != nil {
		return nil, err
	}
	b, err := EncodePNG(img, cfg.DPI)
	if err != nil {
		return nil, err
	}
	return &Result{
		Payload:  sym.Payload,
		Version:  sym.Version,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		PNG:      b,
		Filename: fmt.Sprintf("qrcode_%ddpi.png", cfg.DPI),
	}, nil
}

// Image runs the pipeline up to the final bitmap.
func (g *Generator) Image(cfg GenerationConfig) (*image.RGBA, error) {
	img, _, err := g.compose(cfg)
	return img, err
}

func (g *Generator) compose(cfg GenerationConfig) (*image.RGBA, *EncodedSymbol, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	palette, err := ResolveColors(cfg)
	if err != nil {
		return nil, nil, err
	}
	captionColor := palette.Foreground
	if !cfg.Caption.empty() {
		c := cfg.Caption.Color
		if c == "" {
			c = DefaultCaptionColor
		}
		if captionColor, err = ParseHexColor(c); err != nil {
			return nil, nil, errors.Wrap(err, "caption color")
		}
	}

	payload, err := Payload(cfg)
	if err != nil {
		return nil, nil, err
	}
	sym, err := Encode(payload, cfg.ErrorCorrection)
	if err != nil {
		return nil, nil, err
	}
	img, err := Render(sym, RenderOptions{
		ModulePixelSize: cfg.ModulePixelSize,
		BorderModules:   cfg.BorderModules,
		Drawer:          cfg.Drawer,
		Palette:         palette,
	})
	if err != nil {
		return nil, nil, err
	}

	if cfg.Logo != nil {
		g.applyLogo(img, cfg.Logo, palette)
	}

	if !cfg.Caption.empty() {
		face := g.fonts.Resolve(cfg.Caption.Font, cfg.Caption.Top+cfg.Caption.Bottom, cfg.Caption.FontSizePx)
		img, err = CompositeCaption(img, cfg.Caption.Top, cfg.Caption.Bottom, cfg.ModulePixelSize*cfg.BorderModules, CaptionStyle{
			Face:       face,
			Color:      captionColor,
			Background: palette.Background,
			Bold:       cfg.Caption.Bold,
			PaddingPx:  cfg.Caption.PaddingPx,
		})
		if err != nil {
			return nil, nil, err
		}
	}
	return img, sym, nil
}

// applyLogo degrades to a no-op when the logo cannot be loaded.
func (g *Generator) applyLogo(img *image.RGBA, opt *LogoOptions, palette Palette) {
	src := opt.Source
	if src == nil && fileExists(g.defaultLogo) {
		src = FileResource(g.defaultLogo)
	}
	if src == nil {
		return
	}
	footprint := logoFootprint(img.Bounds().Dx(), opt.SizePercent)
	if footprint <= 0 {
		return
	}
	logo, err := LoadLogo(src, footprint)
	if err != nil {
		g.log.Warn().Err(err).Str("logo", src.Name).Msg("skipping logo")
		return
	}
	CompositeLogo(img, logo, opt.SizePercent, palette.Background)
}

// BatchItem is the outcome of one batch line. Exactly one of Result and Err is set.
type BatchItem struct {
	Index  int
	URL    string
	Result *Result
	Err    error
}

// GenerateBatch generates one URL symbol per non-blank line of cfg.Content.
// Items run concurrently; the returned slice keeps input order and a failed
// item never stops the others. ctx cancellation marks unstarted items failed.
func (g *Generator) GenerateBatch(ctx context.Context, cfg GenerationConfig) ([]BatchItem, error) {
	if cfg.ContentType != ContentBatchURLs {
		return nil, errors.Wrap(ErrInvalidConfig, "config is not a batch")
	}
	urls := SplitBatch(cfg.Content)
	if len(urls) == 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "batch contains no URLs")
	}
	items := make([]BatchItem, len(urls))
	eg := errgroup.Group{}
	eg.SetLimit(g.batchWorkers)
	for i, u := range urls {
		i, u := i, u
		eg.Go(func() error {
			item := BatchItem{Index: i + 1, URL: u}
			if err := ctx.Err(); err != nil {
				item.Err = err
				items[i] = item
				return nil
			}
			res, err := g.Generate(cfg.forItem(u))
			if err != nil {
				g.log.Warn().Err(err).Int("index", item.Index).Str("url", u).Msg("batch item failed")
				item.Err = err
			} else {
				res.Filename = fmt.Sprintf("qrcode_%d.png", item.Index)
				item.Result = res
			}
			items[i] = item
			return nil
		})
	}
	_ = eg.Wait()
	return items, nil
}

// Succeeded returns the items that produced an image, in input order.
func Succeeded(items []BatchItem) []BatchItem {
	out := make([]BatchItem, 0, len(items))
	for _, it := range items {
		if it.Err == nil {
			out = append(out, it)
		}
	}
	return out
}
