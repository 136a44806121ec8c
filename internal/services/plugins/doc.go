// Package plugins runs registered plugin commands in response to bus events.
//
// Each plugin runs in its own operating system process, so a crashing or
// misbehaving plugin cannot take the server down. The dispatcher writes one
// JSON message to the plugin's stdin:
//
//	{"eventType": "createPost", "data": {...}}
//
// and reads at most one response line from its stdout. An invocation that
// outlives the configured deadline is killed. Dispatch is fire-and-forget
// from the publisher's point of view: publishing never waits on plugins.
package plugins
