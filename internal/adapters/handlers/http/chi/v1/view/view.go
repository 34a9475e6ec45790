package view

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"aetherpix/internal/adapters/handlers/http/auth"
	"aetherpix/internal/adapters/handlers/http/response"
	"aetherpix/internal/core/domain"

	"github.com/go-chi/chi/v5"
)

// CacheControl is sent with every served object. Keys are content addressed so objects
// never change.
const CacheControl = "public, max-age=2592000, immutable"

func (h *HandlerV1) serve(position domain.StoragePosition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		obj, err := h.contentService.Fetch(r.Context(), auth.IdentityFrom(r.Context()), position, key, r.Header.Get("If-None-Match"))
		if errors.Is(err, domain.ErrNotModified) {
			if obj != nil {
				setETag(w, obj.ETag)
			}
			w.Header().Set("Cache-Control", CacheControl)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		if err != nil {
			response.FromError(w, h.logger, err)
			return
		}
		defer obj.Body.Close()

		header := w.Header()
		setETag(w, obj.ETag)
		if obj.ContentType != "" {
			header.Set("Content-Type", obj.ContentType)
		}
		if obj.Size >= 0 {
			header.Set("Content-Length", strconv.FormatInt(obj.Size, 10))
		}
		header.Set("Cache-Control", CacheControl)
		w.WriteHeader(http.StatusOK)

		if _, err := io.Copy(w, obj.Body); err != nil {
			h.logger.Warn("object stream interrupted",
				slog.String("position", position.String()),
				slog.String("key", key),
				slog.Any("error", err))
		}
	}
}

func setETag(w http.ResponseWriter, etag string) {
	if etag == "" {
		return
	}
	w.Header().Set("ETag", `"`+etag+`"`)
}
