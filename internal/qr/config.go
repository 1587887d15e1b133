package qr

import (
	"strings"

	"github.com/pkg/errors"
)

// ContentType selects how GenerationConfig.Content is turned into a payload.
type ContentType int

const (
	ContentText ContentType = iota
	ContentURL
	ContentContact
	ContentBatchURLs
)

func (t ContentType) String() string {
	switch t {
	case ContentURL:
		return "url"
	case ContentContact:
		return "contact"
	case ContentBatchURLs:
		return "batch"
	default:
		return "text"
	}
}

// Tag is the value of the "type" query parameter understood by the decoder page.
func (t ContentType) Tag() string {
	switch t {
	case ContentURL:
		return "网址"
	case ContentContact:
		return "联系方式/名片"
	case ContentBatchURLs:
		return "批量网址"
	default:
		return "文本"
	}
}

// ParseContentType accepts the short names returned by String and the decoder tags.
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "文本":
		return ContentText, nil
	case "url", "网址":
		return ContentURL, nil
	case "contact", "vcard", "联系方式/名片":
		return ContentContact, nil
	case "batch", "batch_urls", "批量网址":
		return ContentBatchURLs, nil
	}
	return ContentText, errors.Wrapf(ErrInvalidConfig, "unknown content type %q", s)
}

// ErrorCorrection is the QR redundancy tier.
type ErrorCorrection int

const (
	LevelL ErrorCorrection = iota
	LevelM
	LevelQ
	LevelH
)

func (l ErrorCorrection) String() string {
	switch l {
	case LevelL:
		return "L"
	case LevelM:
		return "M"
	case LevelQ:
		return "Q"
	default:
		return "H"
	}
}

// RecoverablePercent is the approximate share of damaged codewords the level tolerates.
func (l ErrorCorrection) RecoverablePercent() int {
	switch l {
	case LevelL:
		return 7
	case LevelM:
		return 15
	case LevelQ:
		return 25
	default:
		return 30
	}
}

// ParseErrorCorrection parses L, M, Q or H (case-insensitive, also "low", "high" ...).
func ParseErrorCorrection(s string) (ErrorCorrection, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L", "LOW":
		return LevelL, nil
	case "M", "MEDIUM":
		return LevelM, nil
	case "Q", "QUART", "QUARTILE":
		return LevelQ, nil
	case "", "H", "HIGH", "HIGHEST":
		return LevelH, nil
	}
	return LevelH, errors.Wrapf(ErrInvalidConfig, "unknown error correction level %q", s)
}

// LogoOptions configures the center logo. A nil Source falls back to the
// deployment's bundled icon.
type LogoOptions struct {
	Source      *Resource
	SizePercent int
}

// CaptionOptions configures the top and bottom caption bands.
type CaptionOptions struct {
	Top        string
	Bottom     string
	FontSizePx int
	Color      string
	Bold       bool
	PaddingPx  int
	Font       *Resource
}

func (c *CaptionOptions) empty() bool {
	return c == nil || (c.Top == "" && c.Bottom == "")
}

// GenerationConfig is the single record describing one generation request.
type GenerationConfig struct {
	Content     string
	ContentType ContentType
	Contact     ContactCard

	Preset     Preset
	Foreground string
	Background string
	Drawer     DrawerStyle

	ModulePixelSize int
	BorderModules   int
	DPI             int

	ErrorCorrection ErrorCorrection

	Logo    *LogoOptions
	Caption *CaptionOptions
}

const (
	DefaultModulePixelSize = 15
	DefaultBorderModules   = 4
	DefaultDPI             = 300
	DefaultLogoPercent     = 20
	DefaultFontSizePx      = 30
	DefaultCaptionPadding  = 20
	DefaultCaptionColor    = "#000000"

	// maxModulePixelSize is bounded by the writer's uint8 block width.
	maxModulePixelSize = 255

	// MaxImageSide bounds both dimensions of the final canvas, captions included.
	MaxImageSide = 16384

	maxBorderModules  = 100
	maxFontSizePx     = 512
	maxCaptionPadding = 1024
)

// Option mutates a GenerationConfig under construction.
type Option func(*GenerationConfig)

// NewConfig returns a config with the generator defaults, then applies opts in order.
func NewConfig(opts ...Option) GenerationConfig {
	cfg := GenerationConfig{
		ContentType:     ContentText,
		Preset:          PresetClassic,
		Drawer:          DrawerGappedSquare,
		ModulePixelSize: DefaultModulePixelSize,
		BorderModules:   DefaultBorderModules,
		DPI:             DefaultDPI,
		ErrorCorrection: LevelH,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithText encodes free text through the decoder page.
func WithText(s string) Option {
	return func(c *GenerationConfig) {
		c.ContentType = ContentText
		c.Content = s
	}
}

// WithURL encodes s literally.
func WithURL(s string) Option {
	return func(c *GenerationConfig) {
		c.ContentType = ContentURL
		c.Content = s
	}
}

// WithContact encodes a contact card through the decoder page. Content is set
// to the card's human readable preview.
func WithContact(card ContactCard) Option {
	return func(c *GenerationConfig) {
		c.ContentType = ContentContact
		c.Contact = card.Compact()
		c.Content = c.Contact.Preview(LabelsChinese)
	}
}

// WithBatchURLs generates one symbol per non-blank line of s.
func WithBatchURLs(s string) Option {
	return func(c *GenerationConfig) {
		c.ContentType = ContentBatchURLs
		c.Content = s
	}
}

// WithPreset selects a named color preset.
func WithPreset(p Preset) Option {
	return func(c *GenerationConfig) { c.Preset = p }
}

// WithCustomColors selects the Custom preset with explicit colors.
func WithCustomColors(fg, bg string) Option {
	return func(c *GenerationConfig) {
		c.Preset = PresetCustom
		c.Foreground = fg
		c.Background = bg
	}
}

func WithDrawer(d DrawerStyle) Option {
	return func(c *GenerationConfig) { c.Drawer = d }
}

// WithSize sets the pixel size of a module and the quiet zone width in modules.
func WithSize(modulePx, borderModules int) Option {
	return func(c *GenerationConfig) {
		c.ModulePixelSize = modulePx
		c.BorderModules = borderModules
	}
}

func WithDPI(dpi int) Option {
	return func(c *GenerationConfig) { c.DPI = dpi }
}

func WithErrorCorrection(l ErrorCorrection) Option {
	return func(c *GenerationConfig) { c.ErrorCorrection = l }
}

// WithLogo overlays src in the center at sizePercent of the image width.
// A nil src uses the bundled icon.
func WithLogo(src *Resource, sizePercent int) Option {
	return func(c *GenerationConfig) {
		c.Logo = &LogoOptions{Source: src, SizePercent: sizePercent}
	}
}

// WithDefaultLogo overlays the bundled icon in the center.
func WithDefaultLogo(sizePercent int) Option {
	return func(c *GenerationConfig) {
		c.Logo = &LogoOptions{SizePercent: sizePercent}
	}
}

// WithCaption sets top and bottom text with the default caption style.
// Use WithCaptionStyle afterwards to change it.
func WithCaption(top, bottom string) Option {
	return func(c *GenerationConfig) {
		if c.Caption == nil {
			c.Caption = &CaptionOptions{
				FontSizePx: DefaultFontSizePx,
				Color:      DefaultCaptionColor,
				PaddingPx:  DefaultCaptionPadding,
			}
		}
		c.Caption.Top = top
		c.Caption.Bottom = bottom
	}
}

// WithCaptionStyle adjusts the caption font size, color, weight and padding.
func WithCaptionStyle(fontSizePx int, color string, bold bool, paddingPx int) Option {
	return func(c *GenerationConfig) {
		if c.Caption == nil {
			c.Caption = &CaptionOptions{}
		}
		c.Caption.FontSizePx = fontSizePx
		c.Caption.Color = color
		c.Caption.Bold = bold
		c.Caption.PaddingPx = paddingPx
	}
}

// WithCaptionFont renders captions with the given TrueType/OpenType font.
func WithCaptionFont(font *Resource) Option {
	return func(c *GenerationConfig) {
		if c.Caption == nil {
			c.Caption = &CaptionOptions{
				FontSizePx: DefaultFontSizePx,
				Color:      DefaultCaptionColor,
				PaddingPx:  DefaultCaptionPadding,
			}
		}
		c.Caption.Font = font
	}
}

// Validate checks ranges and the content type invariants.
func (c GenerationConfig) Validate() error {
	if c.ModulePixelSize < 1 || c.ModulePixelSize > maxModulePixelSize {
		return errors.Wrapf(ErrInvalidConfig, "module pixel size must be between 1 and %d, got %d", maxModulePixelSize, c.ModulePixelSize)
	}
	if c.BorderModules < 0 || c.BorderModules > maxBorderModules {
		return errors.Wrapf(ErrInvalidConfig, "border must be between 0 and %d modules, got %d", maxBorderModules, c.BorderModules)
	}
	if 2*c.BorderModules*c.ModulePixelSize > MaxImageSide {
		return errors.Wrapf(ErrInvalidConfig, "quiet zone of %d modules at %dpx exceeds the %dpx image limit", c.BorderModules, c.ModulePixelSize, MaxImageSide)
	}
	if c.DPI < 1 {
		return errors.Wrapf(ErrInvalidConfig, "dpi must be at least 1, got %d", c.DPI)
	}
	if c.Logo != nil && (c.Logo.SizePercent < 0 || c.Logo.SizePercent > 100) {
		return errors.Wrapf(ErrInvalidConfig, "logo size must be between 0 and 100 percent, got %d", c.Logo.SizePercent)
	}
	if c.Caption != nil {
		if (c.Caption.FontSizePx < 1 && !c.Caption.empty()) || c.Caption.FontSizePx > maxFontSizePx {
			return errors.Wrapf(ErrInvalidConfig, "caption font size must be between 1 and %d, got %d", maxFontSizePx, c.Caption.FontSizePx)
		}
		if c.Caption.PaddingPx < 0 || c.Caption.PaddingPx > maxCaptionPadding {
			return errors.Wrapf(ErrInvalidConfig, "caption padding must be between 0 and %d, got %d", maxCaptionPadding, c.Caption.PaddingPx)
		}
	}
	switch c.ContentType {
	case ContentContact:
		if len(c.Contact.Compact()) == 0 {
			return errors.Wrap(ErrInvalidConfig, "contact card has no fields")
		}
	case ContentBatchURLs:
		if len(SplitBatch(c.Content)) == 0 {
			return errors.Wrap(ErrInvalidConfig, "batch contains no URLs")
		}
	default:
		if c.Content == "" {
			return errors.Wrap(ErrInvalidConfig, "content is empty")
		}
	}
	return nil
}

// Warnings returns advisories a UI should show before generating. They never
// block generation.
func (c GenerationConfig) Warnings() []string {
	if c.Logo == nil {
		return nil
	}
	var out []string
	if c.ErrorCorrection == LevelL || c.ErrorCorrection == LevelM {
		out = append(out, "low error correction with a center logo may make the code unreadable; use Q or H")
	}
	if c.Logo.SizePercent > 30 {
		out = append(out, "logo larger than 30% may cover too much of the code")
	}
	return out
}

// forItem returns a URL config for one batch line, sharing every other field.
func (c GenerationConfig) forItem(url string) GenerationConfig {
	item := c
	item.ContentType = ContentURL
	item.Content = url
	item.Contact = nil
	if c.Logo != nil {
		l := *c.Logo
		item.Logo = &l
	}
	if c.Caption != nil {
		cc := *c.Caption
		item.Caption = &cc
	}
	return item
}
