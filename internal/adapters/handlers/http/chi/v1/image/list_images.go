package image

import (
	"net/http"
	"strconv"
	"time"

	"aetherpix/internal/adapters/handlers/http/auth"
	"aetherpix/internal/adapters/handlers/http/response"

	"github.com/google/uuid"
)

// V1Image is one entry of the caller's image list
type V1Image struct {
	UUID        uuid.UUID `json:"uuid"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	URL         string    `json:"url,omitempty"`
	PreviewURL  string    `json:"previewUrl"`
	Public      bool      `json:"public"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// V1ListImagesResponse is one page of the caller's images
type V1ListImagesResponse struct {
	Images []V1Image `json:"images"`
	Page   int       `json:"page"`
	Pages  int       `json:"pages"`
	Total  int       `json:"total"`
}

// ListImagesV1 lists the caller's images, newest first
func (h *HandlerV1) ListImagesV1(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		response.BadRequest(w, "page must be an integer")
		return
	}
	limit, err := intParam(r, "limit", 20)
	if err != nil {
		response.BadRequest(w, "limit must be an integer")
		return
	}

	result, err := h.imageService.ListImages(r.Context(), auth.IdentityFrom(r.Context()), page, limit)
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}

	resp := V1ListImagesResponse{
		Images: make([]V1Image, 0, len(result.Images)),
		Page:   result.Page,
		Pages:  result.Pages,
		Total:  result.Total,
	}
	for _, img := range result.Images {
		resp.Images = append(resp.Images, V1Image{
			UUID:        img.UUID,
			Key:         img.StorageKey,
			Name:        img.RawName,
			URL:         img.URL,
			PreviewURL:  img.PreviewURL,
			Public:      img.Public,
			ContentType: img.ContentType,
			Size:        img.SizeBytes,
			CreatedAt:   img.CreatedAt,
		})
	}
	response.JSON(w, http.StatusOK, resp)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
