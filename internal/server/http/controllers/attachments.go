package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/JosiasAurel/scrapbook-v2/internal/runtime"
)

// AttachmentsController hands out pre-signed upload URLs so clients can put
// attachment bytes into the bucket directly.
type AttachmentsController struct {
	rt *runtime.Runtime
}

// NewAttachmentsController creates a new attachments controller.
func NewAttachmentsController(rt *runtime.Runtime) *AttachmentsController {
	return &AttachmentsController{rt: rt}
}

// RegisterRoutes registers attachment routes with the given mux.
func (c *AttachmentsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/attachments/upload-url", c.handleUploadURL)
}

func (c *AttachmentsController) handleUploadURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if _, err := c.rt.Auth().Resolve(r.Context(), bearerToken(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	var req uploadURLReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Filename == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	url, key, err := c.rt.Feed().Uploader().PresignPut(r.Context(), req.Filename, req.ContentType)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "uploads not available")
		return
	}
	writeJSON(w, map[string]string{"url": url, "key": key})
}
