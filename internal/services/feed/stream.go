package feedsvc

import (
	"context"

	"github.com/JosiasAurel/scrapbook-v2/internal/bus"
)

// Item pairs a delivered entity with its resumption token. A client stores
// the token and later resumes with lastSeenId set to it.
type Item[T any] struct {
	Token string
	Value T
}

type streamState int

const (
	stateReplaying streamState = iota
	stateLive
	stateClosed
)

// Stream is one subscriber's merged replay+live sequence. It is pull-based:
// Next suspends until the next item, end of stream, or cancellation. Not
// safe for concurrent Next calls; each subscriber owns its stream.
type Stream[T any] struct {
	sub    *bus.Subscription
	state  streamState
	cursor int64
	replay []T

	// key extracts the resumption token and ordering key of an entity.
	key func(T) (string, int64)
	// accept converts a bus event into an entity, filtering out events this
	// stream does not care about (wrong payload type, kind, or filter miss).
	accept func(bus.Event) (T, bool)
}

// Next returns the next item in order. The strictly-greater-than-cursor
// guard runs on both sources: during replay it tolerates concurrent cursor
// advancement, and in the live phase it silently drops events that were
// already emitted by the replay.
func (st *Stream[T]) Next(ctx context.Context) (Item[T], error) {
	var zero Item[T]
	for {
		switch st.state {
		case stateClosed:
			return zero, ErrStreamClosed

		case stateReplaying:
			for len(st.replay) > 0 {
				v := st.replay[0]
				st.replay = st.replay[1:]
				tok, ord := st.key(v)
				if ord <= st.cursor {
					continue
				}
				st.cursor = ord
				return Item[T]{Token: tok, Value: v}, nil
			}
			st.replay = nil
			st.state = stateLive

		case stateLive:
			evt, err := st.sub.Next(ctx)
			if err != nil {
				st.Close()
				return zero, err
			}
			v, ok := st.accept(evt)
			if !ok {
				continue
			}
			tok, ord := st.key(v)
			if ord <= st.cursor {
				continue
			}
			st.cursor = ord
			return Item[T]{Token: tok, Value: v}, nil
		}
	}
}

// Close tears down the bus subscription. Idempotent.
func (st *Stream[T]) Close() {
	if st.state == stateClosed {
		return
	}
	st.state = stateClosed
	st.sub.Close()
}
