// Package storage abstracts the object store backing product images.
package storage

import (
	"context"
	"errors"
)

// ErrObjectExists is returned by Upload when the key is already taken.
// Uploads never overwrite.
var ErrObjectExists = errors.New("object already exists")

// ErrObjectNotFound is returned when a key has no stored object.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the storage surface the admin flows consume: upload by key,
// derive a public URL from a key, delete by key, and the reverse URL-to-key
// mapping used when cleaning up after a product deletion.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
	// KeyFromPublicURL reverses PublicURL. It returns "" for URLs this store
	// did not produce.
	KeyFromPublicURL(url string) string
}
