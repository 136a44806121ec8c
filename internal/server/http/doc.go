// Package httpserver provides the JSON REST gateway for scrapbook with SSE
// subscribe support for the feed and reaction streams.
//
// Example:
//
//	rt, _ := runtime.Open(ctx, runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: config.Default()})
//	s := httpserver.New(rt)
//	_ = s.ListenAndServe(ctx, ":3000")
package httpserver
