package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"

	"github.com/cristianadrielbraun/qrcompose/internal/qr"
)

// rawField is field without trimming.
func rawField(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return v
	}
	return c.Query(key)
}

// field returns a form value for POST requests, falling back to the query string.
func field(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(c.Query(key))
}

func intField(c *gin.Context, key string, def int) (int, error) {
	v := field(c, key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(qr.ErrInvalidConfig, "%s must be an integer", key)
	}
	return n, nil
}

func boolField(c *gin.Context, key string) bool {
	switch strings.ToLower(field(c, key)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// uploaded reads an optional multipart file into a resource.
func (h *Handler) uploaded(c *gin.Context, key string) (*qr.Resource, error) {
	fh, err := c.FormFile(key)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, errors.Wrapf(qr.ErrInvalidConfig, "read %s upload: %v", key, err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrapf(qr.ErrAssetUnavailable, "open %s upload: %v", key, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		return nil, errors.Wrapf(qr.ErrAssetUnavailable, "read %s upload: %v", key, err)
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, errors.Wrapf(qr.ErrInvalidConfig, "%s upload exceeds %d bytes", key, h.maxUploadBytes)
	}
	return qr.BytesResource(fh.Filename, data), nil
}

// parseConfig builds a GenerationConfig from query or form parameters.
func (h *Handler) parseConfig(c *gin.Context) (qr.GenerationConfig, error) {
	cfg := qr.NewConfig()

	ct, err := qr.ParseContentType(field(c, "type"))
	if err != nil {
		return cfg, err
	}
	cfg.ContentType = ct
	cfg.Content = field(c, "content")
	if ct == qr.ContentContact {
		card := qr.ContactCard{}
		for _, f := range qr.ContactFields {
			card[f] = field(c, string(f))
		}
		cfg.Contact = card.Compact()
		cfg.Content = cfg.Contact.Preview(qr.LabelsChinese)
	}
	if ct == qr.ContentBatchURLs {
		cfg.Content = rawField(c, "content")
	}

	preset := field(c, "preset")
	fg, bg := field(c, "fg"), field(c, "bg")
	cfg.Preset = qr.ParsePreset(preset)
	if strings.EqualFold(preset, "custom") || (preset == "" && (fg != "" || bg != "")) {
		cfg.Preset = qr.PresetCustom
		cfg.Foreground, cfg.Background = fg, bg
	}
	if d := field(c, "drawer"); d != "" {
		cfg.Drawer = qr.ParseDrawer(d)
	}
	if cfg.ErrorCorrection, err = qr.ParseErrorCorrection(field(c, "ec")); err != nil {
		return cfg, err
	}
	if cfg.ModulePixelSize, err = intField(c, "box", qr.DefaultModulePixelSize); err != nil {
		return cfg, err
	}
	if cfg.BorderModules, err = intField(c, "border", qr.DefaultBorderModules); err != nil {
		return cfg, err
	}
	if cfg.DPI, err = intField(c, "dpi", qr.DefaultDPI); err != nil {
		return cfg, err
	}

	logo, err := h.uploaded(c, "logo")
	if err != nil {
		return cfg, err
	}
	if logo != nil || strings.EqualFold(field(c, "logo"), "default") {
		size, err := intField(c, "logoSize", qr.DefaultLogoPercent)
		if err != nil {
			return cfg, err
		}
		cfg.Logo = &qr.LogoOptions{Source: logo, SizePercent: size}
	}

	top, bottom := field(c, "top"), field(c, "bottom")
	if top != "" || bottom != "" {
		fontSize, err := intField(c, "fontSize", qr.DefaultFontSizePx)
		if err != nil {
			return cfg, err
		}
		padding, err := intField(c, "padding", qr.DefaultCaptionPadding)
		if err != nil {
			return cfg, err
		}
		font, err := h.uploaded(c, "font")
		if err != nil {
			return cfg, err
		}
		color := field(c, "textColor")
		if color == "" {
			color = qr.DefaultCaptionColor
		}
		cfg.Caption = &qr.CaptionOptions{
			Top:        top,
			Bottom:     bottom,
			FontSizePx: fontSize,
			Color:      color,
			Bold:       boolField(c, "bold"),
			PaddingPx:  padding,
			Font:       font,
		}
	}
	return cfg, nil
}

// respondError maps pipeline errors to status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := gin.H{"error": err.Error()}
	var capErr *qr.CapacityError
	switch {
	case errors.As(err, &capErr):
		status = http.StatusUnprocessableEntity
		body["remedy"] = capErr.Remedy
	case errors.Is(err, qr.ErrInvalidColor), errors.Is(err, qr.ErrInvalidConfig):
		status = http.StatusBadRequest
	}
	if status >= 500 {
		h.log.Error().Err(err).Str("request_id", c.GetString(requestIDHeader)).Msg("qr generation failed")
	}
	c.JSON(status, body)
}

func setWarnings(c *gin.Context, cfg qr.GenerationConfig) {
	for _, w := range cfg.Warnings() {
		c.Writer.Header().Add("X-QR-Warning", w)
	}
}

// QRCodeHandler generates a single QR code PNG.
func (h *Handler) QRCodeHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*h.maxUploadBytes)
	cfg, err := h.parseConfig(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if cfg.ContentType == qr.ContentBatchURLs {
		h.respondError(c, errors.Wrap(qr.ErrInvalidConfig, "batch content must be posted to /api/qr/batch"))
		return
	}
	res, err := h.gen.Generate(cfg)
	if err != nil {
		h.respondError(c, err)
		return
	}
	setWarnings(c, cfg)
	c.Header("X-QR-Debug", fmt.Sprintf("version=%d;size=%dx%d;drawer=%s;ec=%s", res.Version, res.Width, res.Height, cfg.Drawer, cfg.ErrorCorrection))
	c.Header("Content-Disposition", "attachment; filename="+res.Filename)
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", res.PNG)
}

// batchEntry is one line of the batch manifest.
type batchEntry struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
	File  string `json:"file,omitempty"`
	Error string `json:"error,omitempty"`
}

// BatchHandler generates one PNG per URL line and returns them as a zip archive
// with a manifest.json describing every line's outcome.
func (h *Handler) BatchHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*h.maxUploadBytes)
	cfg, err := h.parseConfig(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	cfg.ContentType = qr.ContentBatchURLs
	cfg.Content = rawField(c, "content")
	cfg.Contact = nil
	items, err := h.gen.GenerateBatch(c.Request.Context(), cfg)
	if err != nil {
		h.respondError(c, err)
		return
	}

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	manifest := make([]batchEntry, 0, len(items))
	for _, it := range items {
		e := batchEntry{Index: it.Index, URL: it.URL}
		if it.Err != nil {
			e.Error = it.Err.Error()
			manifest = append(manifest, e)
			continue
		}
		e.File = it.Result.Filename
		manifest = append(manifest, e)
		f, err := zw.Create(it.Result.Filename)
		if err == nil {
			_, err = f.Write(it.Result.PNG)
		}
		if err != nil {
			h.respondError(c, errors.Wrap(err, "write batch archive"))
			return
		}
	}
	mf, err := zw.Create("manifest.json")
	if err == nil {
		enc := json.NewEncoder(mf)
		enc.SetIndent("", "  ")
		err = enc.Encode(manifest)
	}
	if err == nil {
		err = zw.Close()
	}
	if err != nil {
		h.respondError(c, errors.Wrap(err, "write batch archive"))
		return
	}

	setWarnings(c, cfg)
	c.Header("X-QR-Batch", fmt.Sprintf("total=%d;ok=%d", len(items), len(qr.Succeeded(items))))
	c.Header("Content-Disposition", "attachment; filename=qrcodes.zip")
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// PreviewHandler reports what would be encoded without rendering.
func (h *Handler) PreviewHandler(c *gin.Context) {
	cfg, err := h.parseConfig(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := cfg.Validate(); err != nil {
		h.respondError(c, err)
		return
	}
	resp := gin.H{
		"type":     cfg.ContentType.String(),
		"warnings": cfg.Warnings(),
	}
	switch cfg.ContentType {
	case qr.ContentBatchURLs:
		resp["payloads"] = qr.SplitBatch(cfg.Content)
	default:
		payload, err := qr.Payload(cfg)
		if err != nil {
			h.respondError(c, err)
			return
		}
		resp["payload"] = payload
	}
	if cfg.ContentType == qr.ContentContact {
		resp["preview"] = cfg.Contact.Preview(qr.LabelsFor(c.GetHeader("Accept-Language")))
	}
	c.JSON(http.StatusOK, resp)
}

// PresetsHandler lists the color presets.
func (h *Handler) PresetsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, qr.Presets())
}
