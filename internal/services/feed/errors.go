package feedsvc

import "errors"

var (
	// ErrUnauthorized means the mutation carried no caller identity.
	ErrUnauthorized = errors.New("feed: unauthorized")
	// ErrForbidden means the caller is not the owner of the target entity.
	ErrForbidden = errors.New("feed: forbidden")
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("feed: not found")
	// ErrInvalidResumePoint means the supplied last-seen id no longer
	// resolves; the caller should retry without a resume point.
	ErrInvalidResumePoint = errors.New("feed: invalid resume point")
	// ErrStreamClosed is returned by Next after Close.
	ErrStreamClosed = errors.New("feed: stream closed")
)
