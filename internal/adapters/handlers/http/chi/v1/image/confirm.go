package image

import (
	"encoding/json"
	"net/http"

	"aetherpix/internal/adapters/handlers/http/auth"
	"aetherpix/internal/adapters/handlers/http/response"
)

// V1ConfirmRequest confirms a direct upload. FileName is the storage key returned by presign.
type V1ConfirmRequest struct {
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
	IsPublic bool   `json:"isPublic"`
}

// ConfirmV1 records a completed direct upload
func (h *HandlerV1) ConfirmV1(w http.ResponseWriter, r *http.Request) {
	var req V1ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json body")
		return
	}
	if req.FileName == "" {
		response.BadRequest(w, "fileName is required")
		return
	}

	result, err := h.presignService.Confirm(r.Context(), auth.IdentityFrom(r.Context()), req.FileName, req.Size, req.IsPublic)
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
