package image

import (
	"log/slog"

	"aetherpix/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxJSONBody = 1 << 20

// HandlerV1 is the handler for upload, presign and listing routes
type HandlerV1 struct {
	imageService   port.ImageService
	presignService port.PresignService
	logger         *slog.Logger
}

// NewImageHandlerV1 creates HandlerV1
func NewImageHandlerV1(imageService port.ImageService, presignService port.PresignService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		imageService:   imageService,
		presignService: presignService,
		logger:         logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/upload", h.UploadV1)
	router.Get("/images", h.ListImagesV1)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequestSize(maxJSONBody))
		r.Post("/presign", h.PresignV1)
		r.Post("/confirm", h.ConfirmV1)
	})

	return router
}
