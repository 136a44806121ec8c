package feedsvc

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/JosiasAurel/scrapbook-v2/internal/attach"
	"github.com/JosiasAurel/scrapbook-v2/internal/auth"
	"github.com/JosiasAurel/scrapbook-v2/internal/bus"
	"github.com/JosiasAurel/scrapbook-v2/internal/store"
	"github.com/JosiasAurel/scrapbook-v2/pkg/id"
)

// Service owns the feed's write paths and subscriptions.
type Service struct {
	store    *store.Store
	bus      *bus.Bus
	uploader attach.Uploader
	logger   zerolog.Logger
}

// New wires the feed service. The bus instance is owned by the process root
// and shared with the plugin dispatcher.
//
// Events are published from the store's post-commit hooks, which run under
// the mutex that assigns ordering keys. Publishing after the mutex is
// released would let two concurrent commits announce themselves in inverted
// order, and the live-phase cursor guard would then drop the earlier one.
func New(st *store.Store, b *bus.Bus, uploader attach.Uploader, logger zerolog.Logger) *Service {
	if uploader == nil {
		uploader = attach.Disabled{}
	}
	st.OnPostInsert(func(p store.Post) {
		b.Publish(bus.Event{Type: EventCreatePost, Key: p.ID, Data: p})
	})
	st.OnReactionInsert(func(r store.Reaction) {
		b.Publish(bus.Event{Type: EventReactToPost, Key: r.ID, Data: r})
	})
	return &Service{store: st, bus: b, uploader: uploader, logger: logger}
}

// AttachmentUpload is one attachment sent inline with a post.
type AttachmentUpload struct {
	Data        []byte
	ContentType string
}

// CreatePostInput describes a new post. IDBase, when set, is an
// external-system key (for example a Slack channel-timestamp coordinate);
// the post id is derived from it deterministically so upstream re-delivery
// is idempotent.
type CreatePostInput struct {
	IDBase      string
	Text        string
	Source      string
	Attachments []AttachmentUpload
	// AttachmentURLs carries references the client uploaded itself via a
	// pre-signed URL.
	AttachmentURLs []string
}

// PostRef addresses an existing post by id or by external key.
type PostRef struct {
	ID     string
	IDBase string
}

func (r PostRef) resolve() string {
	if r.ID != "" {
		return r.ID
	}
	if r.IDBase != "" {
		return id.FromExternal(r.IDBase)
	}
	return ""
}

// CreatePost uploads attachments best-effort, commits the post, and
// publishes a createPost event exactly once per fresh insert.
func (s *Service) CreatePost(ctx context.Context, ident auth.Identity, in CreatePostInput) (store.Post, error) {
	if ident.UserID == "" {
		return store.Post{}, ErrUnauthorized
	}

	urls := append([]string(nil), in.AttachmentURLs...)
	for _, a := range in.Attachments {
		url, err := s.uploader.Upload(ctx, a.Data, a.ContentType)
		if err != nil {
			// Best-effort policy: drop the attachment, keep the post.
			s.logger.Warn().Err(err).Str("contentType", a.ContentType).Msg("attachment upload failed, omitting")
			continue
		}
		urls = append(urls, url)
	}

	p := store.Post{
		UserID:      ident.UserID,
		Text:        in.Text,
		Source:      in.Source,
		Attachments: urls,
	}
	if in.IDBase != "" {
		p.ID = id.FromExternal(in.IDBase)
	}
	p, _, err := s.store.InsertPost(ctx, p)
	if err != nil {
		return store.Post{}, errors.Wrap(err, "create post")
	}
	return p, nil
}

// EditPost replaces the text of a post owned by the caller.
func (s *Service) EditPost(ctx context.Context, ident auth.Identity, ref PostRef, text string) (store.Post, error) {
	if ident.UserID == "" {
		return store.Post{}, ErrUnauthorized
	}
	postID := ref.resolve()
	p, err := s.store.GetPost(postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Post{}, ErrNotFound
		}
		return store.Post{}, err
	}
	if p.UserID != ident.UserID {
		return store.Post{}, ErrForbidden
	}
	updated, err := s.store.UpdatePost(ctx, postID, text, nil)
	if err != nil {
		return store.Post{}, errors.Wrap(err, "edit post")
	}
	return updated, nil
}

// DeletePost removes a post owned by the caller together with its reactions.
func (s *Service) DeletePost(ctx context.Context, ident auth.Identity, ref PostRef) error {
	if ident.UserID == "" {
		return ErrUnauthorized
	}
	postID := ref.resolve()
	p, err := s.store.GetPost(postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if p.UserID != ident.UserID {
		return ErrForbidden
	}
	return s.store.DeletePost(ctx, postID)
}

// ReactInput describes one reaction. Kind names the reaction; Payload is the
// emoji codepoint or an image URL.
type ReactInput struct {
	PostID  string
	Kind    string
	Payload string
}

// ReactToPost stores the reaction unless the caller already reacted with the
// same kind, and publishes a reactToPost event only for a fresh insert. The
// uniqueness check runs atomically inside the store, so concurrent identical
// requests publish at most one event.
func (s *Service) ReactToPost(ctx context.Context, ident auth.Identity, in ReactInput) (store.Reaction, error) {
	if ident.UserID == "" {
		return store.Reaction{}, ErrUnauthorized
	}
	if _, err := s.store.GetPost(in.PostID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Reaction{}, ErrNotFound
		}
		return store.Reaction{}, err
	}
	r, _, err := s.store.InsertReaction(ctx, store.Reaction{
		UpdateID: in.PostID,
		UserID:   ident.UserID,
		Kind:     in.Kind,
		Payload:  in.Payload,
	})
	if err != nil {
		return store.Reaction{}, errors.Wrap(err, "react to post")
	}
	return r, nil
}

// UnreactToPost removes the caller's reaction of the given kind.
func (s *Service) UnreactToPost(ctx context.Context, ident auth.Identity, postID, kind string) error {
	if ident.UserID == "" {
		return ErrUnauthorized
	}
	err := s.store.RemoveReaction(ctx, postID, ident.UserID, kind)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Feed returns up to limit recent posts, newest first.
func (s *Service) Feed(ctx context.Context, limit int) ([]store.Post, error) {
	return s.store.RecentPosts(limit)
}

// Uploader exposes the attachment collaborator to the transport for the
// pre-signed upload path.
func (s *Service) Uploader() attach.Uploader {
	return s.uploader
}
