package image

import (
	"net/http"
	"strconv"

	"aetherpix/internal/adapters/handlers/http/auth"
	"aetherpix/internal/adapters/handlers/http/response"
	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"
)

// V1UploadResponse is the response to a multipart upload. URL is null for private uploads.
type V1UploadResponse struct {
	URL *string `json:"url"`
}

// UploadV1 handles a multipart upload of a single image
func (h *HandlerV1) UploadV1(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	quality := domain.DefaultQuality
	if raw := query.Get("quality"); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "quality must be an integer")
			return
		}
		quality = q
	}

	public := false
	if raw := query.Get("public"); raw != "" {
		p, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "public must be a boolean")
			return
		}
		public = p
	}

	body, err := r.MultipartReader()
	if err != nil {
		response.BadRequest(w, "multipart body required")
		return
	}

	result, err := h.imageService.Upload(r.Context(), port.UploadRequest{
		Identity: auth.IdentityFrom(r.Context()),
		Body:     body,
		Quality:  quality,
		Public:   public,
	})
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}

	var resp V1UploadResponse
	if result.PublicURL != "" {
		resp.URL = &result.PublicURL
	}
	response.JSON(w, http.StatusOK, resp)
}
