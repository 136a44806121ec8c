package feedsvc

import (
	"github.com/pkg/errors"

	"github.com/JosiasAurel/scrapbook-v2/internal/store"
)

// resolvePostCursor converts the client's resume point into an ordering key.
// An absent id means "now": the highest key currently stored, or 0 when the
// store is empty so replay emits nothing and the stream goes straight live.
// A stale id is an explicit failure, never a silent fallback to "now".
func (s *Service) resolvePostCursor(lastSeenID string) (int64, error) {
	if lastSeenID == "" {
		return s.store.MaxPostTime()
	}
	p, err := s.store.GetPost(lastSeenID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrInvalidResumePoint
		}
		return 0, err
	}
	return p.PostTime, nil
}

// resolveReactionCursor is the reaction-stream variant, keyed on reaction
// time.
func (s *Service) resolveReactionCursor(lastSeenID string) (int64, error) {
	if lastSeenID == "" {
		return s.store.MaxReactionTime()
	}
	r, err := s.store.GetReaction(lastSeenID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrInvalidResumePoint
		}
		return 0, err
	}
	return r.ReactionTime, nil
}
