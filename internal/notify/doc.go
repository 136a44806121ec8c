// Package notify sends outbound notifications. The only channel today is
// transactional email for magic-link logins; delivery is a pure side effect
// and failures never affect stored state.
package notify
