// Package feedsvc implements the resumable live feed.
//
// # Subscription lifecycle
//
// A subscription merges a bounded historical replay with an unbounded live
// tail into one ordered, deduplicated sequence:
//
//  1. Subscribe to the bus first. From this instant every published event is
//     buffered, so a commit racing the setup cannot fall into a gap.
//  2. Resolve the client's resume point (last-seen id, or "now") to an
//     ordering key. A stale id fails with ErrInvalidResumePoint.
//  3. Replay: scan the store for entities strictly after the cursor,
//     ascending, advancing the cursor per emission.
//  4. Live: drain the bus buffer and tail. An event whose ordering key is
//     not strictly greater than the cursor was already replayed and is
//     dropped, which deduplicates the replay/live boundary.
//  5. Close tears down the bus subscription; streams never leak listeners.
//
// Within one subscriber the emitted ordering keys are strictly increasing
// with no gaps relative to what store and bus jointly contained. Different
// subscribers are fully independent.
//
// # Mutations
//
// The write paths commit to the store first and publish to the bus only
// after a successful commit, exactly once per effective mutation: createPost
// and reactToPost publish, edits and deletes do not. Publishing happens in
// the store's post-commit hooks, under the same mutex that assigns ordering
// keys, so live subscribers always see events in ordering-key order even
// under concurrent writes. Attachment uploads are
// best-effort; a failed upload drops that attachment and never fails the
// post.
package feedsvc
