package drivers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned for keys that are not a single plain file name
// inside the base directory.
var ErrInvalidKey = errors.New("invalid storage key")

// LocalFSDriver implements StorageDriver for a flat directory on local disk
type LocalFSDriver struct {
	BaseDir   string
	PublicURL string
}

// NewLocalFSDriver creates a new LocalFSDriver.
// baseDir is where files will be stored; it is created if missing.
// publicURL is the base URL used to generate public links (e.g., https://cdn.example.com).
func NewLocalFSDriver(baseDir, publicURL string) (*LocalFSDriver, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &LocalFSDriver{BaseDir: abs, PublicURL: strings.TrimRight(publicURL, "/")}, nil
}

// resolve maps key to an absolute path that is guaranteed to sit directly
// inside BaseDir. Dot-files are refused so in-flight temp files stay private.
func (d *LocalFSDriver) resolve(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, ".") || strings.ContainsAny(key, `/\`) || !filepath.IsLocal(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	fullPath := filepath.Join(d.BaseDir, key)
	rel, err := filepath.Rel(d.BaseDir, fullPath)
	if err != nil || rel != key {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return fullPath, nil
}

// Save streams body into a temp file next to the target and renames it into
// place, so concurrent readers see either the old or the new content.
func (d *LocalFSDriver) Save(ctx context.Context, key string, body io.Reader) (int64, error) {
	fullPath, err := d.resolve(key)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tmpPath := filepath.Join(d.BaseDir, ".upload-"+uuid.NewString()+".tmp")
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	n, err := io.Copy(file, body)
	if err != nil {
		file.Close()
		d.removeTemp(ctx, tmpPath)
		return 0, fmt.Errorf("failed to save file content: %w", err)
	}
	if err := file.Close(); err != nil {
		d.removeTemp(ctx, tmpPath)
		return 0, fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		d.removeTemp(ctx, tmpPath)
		return 0, fmt.Errorf("failed to move file into place: %w", err)
	}
	return n, nil
}

func (d *LocalFSDriver) removeTemp(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.WarnContext(ctx, "failed to remove temp file", "path", path, "error", err)
	}
}

func (d *LocalFSDriver) Open(ctx context.Context, key string) (io.ReadSeekCloser, fs.FileInfo, error) {
	fullPath, err := d.resolve(key)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, fmt.Errorf("%q is not a regular file: %w", key, fs.ErrNotExist)
	}
	return f, info, nil
}

func (d *LocalFSDriver) GenerateURL(ctx context.Context, key string) (string, error) {
	if _, err := d.resolve(key); err != nil {
		return "", err
	}
	if d.PublicURL == "" {
		return key, nil
	}
	return fmt.Sprintf("%s/%s", d.PublicURL, key), nil
}

func (d *LocalFSDriver) LastModified(ctx context.Context) (time.Time, error) {
	info, err := os.Stat(d.BaseDir)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
