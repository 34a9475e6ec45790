package view

import (
	"log/slog"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for image delivery routes
type HandlerV1 struct {
	contentService port.ContentService
	logger         *slog.Logger
}

// NewViewHandlerV1 creates HandlerV1
func NewViewHandlerV1(service port.ContentService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		contentService: service,
		logger:         logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{key}", h.serve(domain.PositionOriginal))
	router.Get("/full/{key}", h.serve(domain.PositionDerivative))
	router.Get("/preview/{key}", h.serve(domain.PositionPreview))

	return router
}
