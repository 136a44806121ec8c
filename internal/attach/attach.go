package attach

import (
	"context"
	"fmt"
	"strings"
)

// Uploader accepts raw attachment bytes and returns a retrievable reference.
type Uploader interface {
	// Upload stores data and returns its public URL.
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
	// PresignPut returns a URL the client can PUT the object to directly,
	// plus the object key the upload will land under.
	PresignPut(ctx context.Context, filename, contentType string) (url string, key string, err error)
}

// Disabled is the Uploader used when no bucket is configured. Every call
// fails, which the feed treats as "omit the attachment".
type Disabled struct{}

func (Disabled) Upload(context.Context, []byte, string) (string, error) {
	return "", fmt.Errorf("attach: no bucket configured")
}

func (Disabled) PresignPut(context.Context, string, string) (string, string, error) {
	return "", "", fmt.Errorf("attach: no bucket configured")
}

// extFromContentType maps "image/png" to "png". Unknown types keep a neutral
// "bin" extension.
func extFromContentType(ct string) string {
	if i := strings.IndexByte(ct, '/'); i >= 0 && i+1 < len(ct) {
		return ct[i+1:]
	}
	return "bin"
}
