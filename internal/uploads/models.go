package uploads

import (
	"errors"
	"io"
	"time"
)

var (
	ErrNoFile          = errors.New("no file provided")
	ErrEmptyFilename   = errors.New("no file selected")
	ErrTypeNotAllowed  = errors.New("file type not allowed")
	ErrContentMismatch = errors.New("file content does not match extension")
	ErrFileTooLarge    = errors.New("file too large")
	ErrNotFound        = errors.New("file not found")
)

// FileMetadata describes a file that has just been stored.
// Name is the sanitized key, which may differ from the client's filename.
type FileMetadata struct {
	Name string
	URL  string
	Size int64
}

// StoredFile is an open handle on a stored file, ready to be streamed back.
// Callers must close Content.
type StoredFile struct {
	Name        string
	ModTime     time.Time
	ContentType string
	Content     io.ReadSeekCloser
}

// UploadResponse is the body returned by a successful upload
type UploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

// ErrorResponse is the body returned on every failure path
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HealthResponse is the body of GET /health. Timestamp is null when the
// upload directory does not exist.
type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp *string `json:"timestamp"`
}
