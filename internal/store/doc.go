// Package store implements the durable store over Pebble.
//
// # Keyspace
//
// Keys are lexicographically ordered so range scans walk entities in
// ordering-key order:
//   - post/id/{id}                          (post record, JSON)
//   - post/ts/{postTime_be8}                (ordering index -> post id)
//   - react/id/{id}                         (reaction record, JSON)
//   - react/ts/{reactionTime_be8}           (ordering index -> reaction id)
//   - react/pair/{updateID}/{userID}/{kind} (uniqueness key -> reaction id)
//   - user/id/{id}, user/email/{email}
//   - session/{token}, verify/{token}
//
// # Ordering keys
//
// PostTime and ReactionTime are assigned at commit by a monotonic
// millisecond clock owned by the store: the clock never regresses and bumps
// by one on a same-millisecond collision, so ordering keys are strictly
// increasing and safe to use as replay cursors. They are set once on insert
// and never mutated.
//
// # Write serialization
//
// All writes go through a single store mutex. That makes the reaction
// uniqueness check ("insert if no reaction of this kind by this user on this
// update") atomic against concurrent identical requests, and keeps ordering
// key assignment race-free.
//
// Insert hooks (OnPostInsert, OnReactionInsert) run after the commit while
// the mutex is still held, so hook invocations happen in ordering-key
// order. Hooks must be fast and non-blocking.
package store
