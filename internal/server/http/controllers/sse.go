package controllers

import (
	"encoding/json"
	"net/http"

	feedsvc "github.com/JosiasAurel/scrapbook-v2/internal/services/feed"
)

// serveSSE pumps stream items to the client as Server-Sent Events until the
// request context ends. Each event carries the resumption token as the SSE
// id field, so EventSource reconnects can pass it back as lastSeenId.
func serveSSE[T any](w http.ResponseWriter, r *http.Request, st *feedsvc.Stream[T]) {
	defer st.Close()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		item, err := st.Next(r.Context())
		if err != nil {
			return
		}
		b, err := json.Marshal(item.Value)
		if err != nil {
			continue
		}
		if _, err := w.Write([]byte("id: " + item.Token + "\ndata: ")); err != nil {
			return
		}
		if _, err := w.Write(b); err != nil {
			return
		}
		if _, err := w.Write([]byte("\n\n")); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}
