package id

import "github.com/google/uuid"

// namespace for deterministic ids. Changing it breaks idempotent re-delivery
// of upstream messages, so it is fixed for the lifetime of the data set.
var namespace = uuid.MustParse("964fe082-b01d-44fe-b0a0-e3d6e7a495e9")

// New returns a random id for a freshly created entity.
func New() string {
	return uuid.NewString()
}

// FromExternal returns the deterministic id for an external-system key such
// as "C096Y7U3L4T-1716915866.123456". The same key always yields the same id.
func FromExternal(key string) string {
	return uuid.NewSHA1(namespace, []byte(key)).String()
}
