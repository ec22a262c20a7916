package uploads

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/OpenNSW/cdn/internal/uploads/drivers"
)

// Options tunes UploadService behaviour
type Options struct {
	// StrictContent rejects image uploads whose magic number contradicts the extension.
	StrictContent bool
}

// UploadService validates uploads and hands them to the storage driver
type UploadService struct {
	Driver StorageDriver
	opts   Options
}

func NewUploadService(driver StorageDriver, opts Options) *UploadService {
	return &UploadService{Driver: driver, opts: opts}
}

// Upload validates the client supplied filename, stores the content under its
// sanitized form and returns where it can be fetched from.
func (s *UploadService) Upload(ctx context.Context, filename string, reader io.Reader) (*FileMetadata, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	if !IsAllowed(filename) {
		return nil, fmt.Errorf("%w: %q", ErrTypeNotAllowed, filename)
	}

	key := storageKey(filename)

	if s.opts.StrictContent {
		br := bufio.NewReaderSize(reader, sniffLen)
		head, err := br.Peek(sniffLen)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read file header: %w", err)
		}
		if !contentMatchesExtension(key, head) {
			return nil, fmt.Errorf("%w: %q", ErrContentMismatch, key)
		}
		reader = br
	}

	size, err := s.Driver.Save(ctx, key, reader)
	if err != nil {
		return nil, fmt.Errorf("storage driver failed: %w", err)
	}

	url, err := s.Driver.GenerateURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to generate URL: %w", err)
	}

	if key != filename {
		slog.DebugContext(ctx, "stored under sanitized name", "name", key, "original_name", filename)
	}
	return &FileMetadata{Name: key, URL: url, Size: size}, nil
}

// storageKey sanitizes an already validated filename. When sanitizing leaves
// no stem or drops the extension (e.g. "модель.png" becomes "png"), a random
// stem is generated and the validated extension kept.
func storageKey(filename string) string {
	ext := Extension(filename)
	key := SanitizeFilename(filename)
	if Extension(key) == ext && strings.TrimSuffix(key, "."+Extension(key)) != "" {
		return key
	}
	return uuid.NewString() + "." + ext
}

// Download opens a stored file by its exact name. Names that do not exist or
// would resolve outside the storage root are reported as ErrNotFound.
func (s *UploadService) Download(ctx context.Context, name string) (*StoredFile, error) {
	content, info, err := s.Driver.Open(ctx, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, drivers.ErrInvalidKey) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to open %q: %w", name, err)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(content, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		content.Close()
		return nil, fmt.Errorf("failed to read %q: %w", name, err)
	}
	if _, err := content.Seek(0, io.SeekStart); err != nil {
		content.Close()
		return nil, fmt.Errorf("failed to rewind %q: %w", name, err)
	}

	return &StoredFile{
		Name:        name,
		ModTime:     info.ModTime(),
		ContentType: DetectContentType(name, head[:n]),
		Content:     content,
	}, nil
}

// Health reports liveness. The timestamp is the storage root's modification
// time in Unix seconds, or nil when it cannot be determined.
func (s *UploadService) Health(ctx context.Context) HealthResponse {
	resp := HealthResponse{Status: "ok"}
	mtime, err := s.Driver.LastModified(ctx)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.WarnContext(ctx, "failed to stat upload directory", "error", err)
		}
		return resp
	}
	ts := strconv.FormatFloat(float64(mtime.UnixNano())/1e9, 'f', -1, 64)
	resp.Timestamp = &ts
	return resp
}
