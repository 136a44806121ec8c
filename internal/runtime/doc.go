// Package runtime wires storage, the event bus, and the services into a
// single-node scrapbook instance. It exposes Open/Close, basic health
// checks, and accessors used by the transport layer.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(ctx, runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(ctx)
//	stream, _ := rt.Feed().SubscribeFeed(feedsvc.SubscribeFeedOptions{})
package runtime
