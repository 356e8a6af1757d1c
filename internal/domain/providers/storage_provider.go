package providers

import (
	"context"
	"io"
)

// StorageProvider defines the interface for binary asset storage. Stored
// objects are addressed by a public URL, which is what gets persisted on
// the referencing row (e.g. a facility's image_url).
type StorageProvider interface {
	// Store writes an object and returns its public URL
	Store(ctx context.Context, name string, contentType string, r io.Reader) (string, error)

	// Remove deletes an object by its public URL; unknown URLs are ignored
	Remove(ctx context.Context, publicURL string) error
}
