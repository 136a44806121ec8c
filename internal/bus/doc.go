// Package bus implements the in-process event bus.
//
// The bus broadcasts events keyed by type to every live subscription of that
// type. Each subscription owns an unbounded buffer that starts filling the
// instant Subscribe returns, even before the subscriber begins draining it.
// Feed subscriptions rely on that ordering: they subscribe first, then run
// the historical catch-up query, so an event committed in between is held in
// the buffer rather than lost.
//
// Publish enqueues to every subscription registered at publish time and
// returns; it never blocks on a slow subscriber and never fails the
// publisher. Close on a subscription is idempotent and safe against a
// concurrent publish: the in-flight enqueue either lands before the close or
// is skipped.
package bus
