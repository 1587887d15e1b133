package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cristianadrielbraun/qrcompose/internal/qr"
)

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	gen            *qr.Generator
	log            zerolog.Logger
	maxUploadBytes int64
}

// New returns a Handler generating with gen.
func New(gen *qr.Generator, log zerolog.Logger, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	return &Handler{gen: gen, log: log, maxUploadBytes: maxUploadBytes}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)
	api := r.Group("/api")
	{
		api.GET("/qr", h.QRCodeHandler)
		api.POST("/qr", h.QRCodeHandler)
		api.POST("/qr/batch", h.BatchHandler)
		api.GET("/qr/preview", h.PreviewHandler)
		api.GET("/qr/presets", h.PresetsHandler)
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
