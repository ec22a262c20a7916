package uploads

import (
	"context"
	"io"
	"io/fs"
	"time"
)

// StorageDriver defines how we interact with the binary storage
type StorageDriver interface {
	// Save writes the content under key, replacing any previous content, and
	// returns the number of bytes written
	Save(ctx context.Context, key string, body io.Reader) (int64, error)

	// Open returns a seekable handle on the stored content and its file info
	Open(ctx context.Context, key string) (io.ReadSeekCloser, fs.FileInfo, error)

	// GenerateURL returns a public-facing URL
	GenerateURL(ctx context.Context, key string) (string, error)

	// LastModified reports when the storage root last changed
	LastModified(ctx context.Context) (time.Time, error)
}
