package image

import (
	"encoding/json"
	"net/http"
	"time"

	"aetherpix/internal/adapters/handlers/http/auth"
	"aetherpix/internal/adapters/handlers/http/response"
)

// V1PresignRequest is the request for a direct upload grant
type V1PresignRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// V1PresignResponse is the direct upload grant
type V1PresignResponse struct {
	UploadURL string    `json:"uploadUrl"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PresignV1 issues a presigned PUT for a new original
func (h *HandlerV1) PresignV1(w http.ResponseWriter, r *http.Request) {
	var req V1PresignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json body")
		return
	}
	if req.ContentType == "" || req.Size <= 0 {
		response.BadRequest(w, "contentType and a positive size are required")
		return
	}

	grant, err := h.presignService.PresignPut(r.Context(), auth.IdentityFrom(r.Context()), req.FileName, req.ContentType, req.Size)
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, V1PresignResponse{
		UploadURL: grant.SignedURL,
		Key:       grant.StorageKey,
		ExpiresAt: grant.ExpiresAt,
	})
}
