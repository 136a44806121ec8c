// Package id generates opaque entity identifiers.
//
// Fresh entities get a random UUIDv4. Entities mirrored from an external
// system (for example a Slack message identified by its channel and
// timestamp) get a UUIDv5 derived from that external key, so re-delivery of
// the same upstream message maps to the same id and the insert becomes
// idempotent.
package id
