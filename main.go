package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cristianadrielbraun/qrcompose/internal/config"
	"github.com/cristianadrielbraun/qrcompose/internal/handlers"
	"github.com/cristianadrielbraun/qrcompose/internal/qr"
)

func main() {
	cfg := config.Load()
	log := zerolog.New(os.Stdout).Level(cfg.LogLevel).With().Timestamp().Str("app", "qrcompose").Logger()
	if cfg.Env == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(handlers.RequestID())
	r.Use(handlers.Logger(log))
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	gen := qr.New(
		qr.WithLogger(log),
		qr.WithFontResolver(cfg.Fonts()),
		qr.WithDefaultLogoPath(cfg.DefaultLogo),
		qr.WithBatchWorkers(cfg.BatchWorkers),
	)
	handlers.New(gen, log, cfg.MaxUploadBytes).Register(r)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("qrcompose listening")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
