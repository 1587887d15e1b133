package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/cristianadrielbraun/qrcompose/internal/qr"
)

type Config struct {
	Port           string
	Env            string
	LogLevel       zerolog.Level
	DefaultLogo    string
	CJKFonts       []string
	LatinFonts     []string
	BatchWorkers   int
	MaxUploadBytes int64
}

// Load reads .env files when present, then the environment.
func Load() Config {
	_ = godotenv.Load(".env", ".env.local")

	level, err := zerolog.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return Config{
		Port:           getenv("PORT", "8080"),
		Env:            getenv("APP_ENV", "development"),
		LogLevel:       level,
		DefaultLogo:    getenv("QR_DEFAULT_LOGO", qr.DefaultLogoPath),
		CJKFonts:       getlist("QR_FONT_CJK", qr.DefaultCJKFonts),
		LatinFonts:     getlist("QR_FONT_LATIN", qr.DefaultLatinFonts),
		BatchWorkers:   getint("QR_BATCH_WORKERS", 4),
		MaxUploadBytes: int64(getint("QR_MAX_UPLOAD_BYTES", 5<<20)),
	}
}

// Fonts returns the caption font strategy for the configured candidate lists.
func (c Config) Fonts() qr.CandidateFonts {
	return qr.CandidateFonts{CJK: c.CJKFonts, Latin: c.LatinFonts}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// getlist splits a path list on the OS list separator (':' on unix).
func getlist(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, string(os.PathListSeparator)) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
