package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/cristianadrielbraun/qrcompose/internal/qr"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "APP_ENV", "LOG_LEVEL", "QR_DEFAULT_LOGO", "QR_FONT_CJK", "QR_FONT_LATIN", "QR_BATCH_WORKERS", "QR_MAX_UPLOAD_BYTES"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, qr.DefaultLogoPath, cfg.DefaultLogo)
	assert.Equal(t, qr.DefaultCJKFonts, cfg.CJKFonts)
	assert.Equal(t, 4, cfg.BatchWorkers)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, qr.DefaultFonts, cfg.Fonts())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("QR_DEFAULT_LOGO", "/srv/brand.png")
	t.Setenv("QR_FONT_CJK", "/fonts/a.ttc: /fonts/b.ttf:")
	t.Setenv("QR_FONT_LATIN", "/fonts/c.ttf")
	t.Setenv("QR_BATCH_WORKERS", "8")
	t.Setenv("QR_MAX_UPLOAD_BYTES", "1024")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "/srv/brand.png", cfg.DefaultLogo)
	assert.Equal(t, []string{"/fonts/a.ttc", "/fonts/b.ttf"}, cfg.CJKFonts)
	assert.Equal(t, qr.CandidateFonts{CJK: []string{"/fonts/a.ttc", "/fonts/b.ttf"}, Latin: []string{"/fonts/c.ttf"}}, cfg.Fonts())
	assert.Equal(t, 8, cfg.BatchWorkers)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
}

func TestLoadIgnoresBadValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("QR_BATCH_WORKERS", "-2")
	t.Setenv("QR_MAX_UPLOAD_BYTES", "lots")

	cfg := Load()
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 4, cfg.BatchWorkers)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
}
