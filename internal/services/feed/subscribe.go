package feedsvc

import (
	"github.com/JosiasAurel/scrapbook-v2/internal/bus"
	"github.com/JosiasAurel/scrapbook-v2/internal/store"
)

// SubscribeFeedOptions tunes a feed subscription. LastSeenID resumes from the
// post the client last observed; empty starts live from "now". Filter is an
// optional CEL expression evaluated against each post.
type SubscribeFeedOptions struct {
	LastSeenID string
	Filter     string
}

// SubscribeFeed opens a resumable post stream. The bus subscription is taken
// before the cursor is resolved and the backlog scanned, so a post committed
// during setup is either replayed or buffered in the subscription, never
// lost. The stream's cursor guard removes the overlap between the two.
func (s *Service) SubscribeFeed(opts SubscribeFeedOptions) (*Stream[store.Post], error) {
	filter, err := newCELFilter(opts.Filter)
	if err != nil {
		return nil, err
	}

	sub := s.bus.Subscribe(EventCreatePost)
	cursor, err := s.resolvePostCursor(opts.LastSeenID)
	if err != nil {
		sub.Close()
		return nil, err
	}
	backlog, err := s.store.ScanPostsAfter(cursor, 0)
	if err != nil {
		sub.Close()
		return nil, err
	}
	replay := backlog[:0]
	for _, p := range backlog {
		if filter.Eval(p) {
			replay = append(replay, p)
		}
	}

	return &Stream[store.Post]{
		sub:    sub,
		state:  stateReplaying,
		cursor: cursor,
		replay: replay,
		key: func(p store.Post) (string, int64) {
			return p.ID, p.PostTime
		},
		accept: func(evt bus.Event) (store.Post, bool) {
			p, ok := evt.Data.(store.Post)
			if !ok {
				return store.Post{}, false
			}
			return p, filter.Eval(p)
		},
	}, nil
}

// SubscribeReactionsOptions tunes a reaction subscription. Kind, when set,
// restricts the stream to reactions of that kind.
type SubscribeReactionsOptions struct {
	LastSeenID string
	Kind       string
}

// SubscribeReactions opens a resumable reaction stream. Same
// subscribe-then-replay discipline as SubscribeFeed.
func (s *Service) SubscribeReactions(opts SubscribeReactionsOptions) (*Stream[store.Reaction], error) {
	sub := s.bus.Subscribe(EventReactToPost)
	cursor, err := s.resolveReactionCursor(opts.LastSeenID)
	if err != nil {
		sub.Close()
		return nil, err
	}
	backlog, err := s.store.ScanReactionsAfter(cursor, 0)
	if err != nil {
		sub.Close()
		return nil, err
	}
	replay := backlog[:0]
	for _, r := range backlog {
		if opts.Kind == "" || r.Kind == opts.Kind {
			replay = append(replay, r)
		}
	}

	return &Stream[store.Reaction]{
		sub:    sub,
		state:  stateReplaying,
		cursor: cursor,
		replay: replay,
		key: func(r store.Reaction) (string, int64) {
			return r.ID, r.ReactionTime
		},
		accept: func(evt bus.Event) (store.Reaction, bool) {
			r, ok := evt.Data.(store.Reaction)
			if !ok {
				return store.Reaction{}, false
			}
			return r, opts.Kind == "" || r.Kind == opts.Kind
		},
	}, nil
}
