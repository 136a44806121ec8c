// Package auth resolves request credentials to user identities.
//
// Login is passwordless: RequestLogin mints a single-use magic-link token
// and mails it; Verify redeems the token for a bearer session. Resolve maps
// a bearer token from a request to the owning user or fails with
// ErrUnauthorized.
package auth
