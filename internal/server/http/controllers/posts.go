package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/JosiasAurel/scrapbook-v2/internal/auth"
	"github.com/JosiasAurel/scrapbook-v2/internal/runtime"
	feedsvc "github.com/JosiasAurel/scrapbook-v2/internal/services/feed"
)

// PostsController handles post mutations: create, edit, delete, react,
// unreact. Every route requires a session bearer token.
type PostsController struct {
	rt *runtime.Runtime
}

// NewPostsController creates a new posts controller.
func NewPostsController(rt *runtime.Runtime) *PostsController {
	return &PostsController{rt: rt}
}

// RegisterRoutes registers post routes with the given mux.
func (c *PostsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/posts/create", c.handleCreate)
	mux.HandleFunc("/v1/posts/edit", c.handleEdit)
	mux.HandleFunc("/v1/posts/delete", c.handleDelete)
	mux.HandleFunc("/v1/posts/react", c.handleReact)
	mux.HandleFunc("/v1/posts/unreact", c.handleUnreact)
}

func (c *PostsController) identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	ident, err := c.rt.Auth().Resolve(r.Context(), bearerToken(r))
	if err != nil {
		writeServiceError(w, err)
		return auth.Identity{}, false
	}
	return ident, true
}

func (c *PostsController) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	ident, ok := c.identity(w, r)
	if !ok {
		return
	}
	var req createPostReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	uploads := make([]feedsvc.AttachmentUpload, 0, len(req.Uploads))
	for _, u := range req.Uploads {
		uploads = append(uploads, feedsvc.AttachmentUpload{Data: u.Data, ContentType: u.ContentType})
	}
	p, err := c.rt.Feed().CreatePost(r.Context(), ident, feedsvc.CreatePostInput{
		IDBase:         req.IDBase,
		Text:           req.Text,
		Source:         req.Source,
		Attachments:    uploads,
		AttachmentURLs: req.Attachments,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, p)
}

func (c *PostsController) handleEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	ident, ok := c.identity(w, r)
	if !ok {
		return
	}
	var req editPostReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p, err := c.rt.Feed().EditPost(r.Context(), ident, feedsvc.PostRef{ID: req.ID, IDBase: req.IDBase}, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, p)
}

func (c *PostsController) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	ident, ok := c.identity(w, r)
	if !ok {
		return
	}
	var req deletePostReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.rt.Feed().DeletePost(r.Context(), ident, feedsvc.PostRef{ID: req.ID, IDBase: req.IDBase}); err != nil {
		writeServiceError(w, err)
		return
	}
	writeNoContent(w)
}

func (c *PostsController) handleReact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	ident, ok := c.identity(w, r)
	if !ok {
		return
	}
	var req reactReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	reaction, err := c.rt.Feed().ReactToPost(r.Context(), ident, feedsvc.ReactInput{
		PostID:  req.PostID,
		Kind:    req.Kind,
		Payload: req.Payload,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, reaction)
}

func (c *PostsController) handleUnreact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	ident, ok := c.identity(w, r)
	if !ok {
		return
	}
	var req reactReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.rt.Feed().UnreactToPost(r.Context(), ident, req.PostID, req.Kind); err != nil {
		writeServiceError(w, err)
		return
	}
	writeNoContent(w)
}
