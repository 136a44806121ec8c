package controllers

import (
	"net/http"

	"github.com/JosiasAurel/scrapbook-v2/internal/runtime"
	feedsvc "github.com/JosiasAurel/scrapbook-v2/internal/services/feed"
	"github.com/JosiasAurel/scrapbook-v2/internal/store"
)

// FeedController handles feed reads and the SSE subscription endpoints.
type FeedController struct {
	rt *runtime.Runtime
}

// NewFeedController creates a new feed controller.
func NewFeedController(rt *runtime.Runtime) *FeedController {
	return &FeedController{rt: rt}
}

// RegisterRoutes registers feed routes with the given mux.
func (c *FeedController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/feed", c.handleFeed)
	mux.HandleFunc("/v1/feed/subscribe", c.handleSubscribe)
	mux.HandleFunc("/v1/reactions/subscribe", c.handleSubscribeReactions)
}

// handleFeed returns recent posts, newest first. The feed is public.
func (c *FeedController) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	limit := parseLimit(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = c.rt.Config().FeedPageSize
	}
	posts, err := c.rt.Feed().Feed(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if posts == nil {
		posts = []store.Post{}
	}
	writeJSON(w, map[string]any{"posts": posts})
}

// handleSubscribe streams posts over SSE. Query parameters: lastSeenId
// resumes from the post the client last observed; filter is an optional CEL
// expression over the post fields.
func (c *FeedController) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	q := r.URL.Query()
	lastSeen := q.Get("lastSeenId")
	if lastSeen == "" {
		// EventSource reconnects resend the last SSE id here.
		lastSeen = r.Header.Get("Last-Event-ID")
	}
	st, err := c.rt.Feed().SubscribeFeed(feedsvc.SubscribeFeedOptions{
		LastSeenID: lastSeen,
		Filter:     q.Get("filter"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	serveSSE(w, r, st)
}

// handleSubscribeReactions streams reactions over SSE. Query parameters:
// lastSeenId and an optional kind restriction.
func (c *FeedController) handleSubscribeReactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	q := r.URL.Query()
	lastSeen := q.Get("lastSeenId")
	if lastSeen == "" {
		lastSeen = r.Header.Get("Last-Event-ID")
	}
	st, err := c.rt.Feed().SubscribeReactions(feedsvc.SubscribeReactionsOptions{
		LastSeenID: lastSeen,
		Kind:       q.Get("kind"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	serveSSE(w, r, st)
}
