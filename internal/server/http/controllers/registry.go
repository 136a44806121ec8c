package controllers

import (
	"net/http"

	"github.com/JosiasAurel/scrapbook-v2/internal/runtime"
)

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes
// and manages the lifecycle of individual controllers.
type ControllerRegistry struct {
	general     *GeneralController
	auth        *AuthController
	posts       *PostsController
	feed        *FeedController
	attachments *AttachmentsController
}

// NewControllerRegistry creates a new controller registry.
//
// It initializes all controllers with the provided runtime.
func NewControllerRegistry(rt *runtime.Runtime) *ControllerRegistry {
	return &ControllerRegistry{
		general:     NewGeneralController(rt),
		auth:        NewAuthController(rt),
		posts:       NewPostsController(rt),
		feed:        NewFeedController(rt),
		attachments: NewAttachmentsController(rt),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
//
// This method sets up all HTTP endpoints for the scrapbook service:
// general endpoints (health), the magic-link auth flow, post mutations,
// feed reads and subscriptions, and attachment upload URLs.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.auth.RegisterRoutes(mux)
	r.posts.RegisterRoutes(mux)
	r.feed.RegisterRoutes(mux)
	r.attachments.RegisterRoutes(mux)
}
