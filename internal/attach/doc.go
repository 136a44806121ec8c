// Package attach stores post attachments in an object bucket.
//
// Uploads are best-effort from the feed's point of view: a failed upload is
// logged by the caller and the attachment dropped, it never fails the post
// mutation. Clients that prefer to upload directly can request a pre-signed
// PUT URL instead.
package attach
