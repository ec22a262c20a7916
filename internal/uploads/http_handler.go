package uploads

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OpenNSW/cdn/internal/middleware"
)

// FormField is the multipart field carrying the uploaded file.
const FormField = "uploadfile"

type HTTPHandler struct {
	Service        *UploadService
	MaxUploadBytes int64
}

func NewHTTPHandler(service *UploadService, maxUploadBytes int64) *HTTPHandler {
	return &HTTPHandler{Service: service, MaxUploadBytes: maxUploadBytes}
}

// Upload handles POST /upload/
func (h *HTTPHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	metadata, err := h.upload(c)
	if err != nil {
		status, message := statusForError(err, "Failed to upload file")
		if status == http.StatusInternalServerError {
			slog.ErrorContext(ctx, "upload failed", "error", err)
		} else {
			slog.InfoContext(ctx, "upload rejected", "reason", err)
		}
		writeJSONError(c, status, message)
		return
	}

	slog.InfoContext(ctx, "file uploaded",
		"request_id", middleware.RequestIDFromContext(ctx),
		"name", metadata.Name,
		"size", metadata.Size,
		"url", metadata.URL,
	)

	c.JSON(http.StatusOK, UploadResponse{
		Success: true,
		URL:     metadata.URL,
		Message: "File uploaded successfully",
	})
}

func (h *HTTPHandler) upload(c *gin.Context) (*FileMetadata, error) {
	if c.Request.ContentLength > h.MaxUploadBytes {
		return nil, fmt.Errorf("%w: declared %d bytes", ErrFileTooLarge, c.Request.ContentLength)
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	header, err := c.FormFile(FormField)
	if err != nil {
		if isTooLarge(err) {
			return nil, err
		}
		// A file input submitted with nothing selected arrives as a part with
		// an empty filename, which the multipart reader files as a plain value.
		if form := c.Request.MultipartForm; form != nil && len(form.Value[FormField]) > 0 {
			return nil, ErrEmptyFilename
		}
		return nil, fmt.Errorf("%w: %v", ErrNoFile, err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded part: %w", err)
	}
	defer file.Close()

	return h.Service.Upload(c.Request.Context(), header.Filename, file)
}

// Download handles GET and HEAD /{filename}
func (h *HTTPHandler) Download(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("filename")

	stored, err := h.Service.Download(ctx, name)
	if err != nil {
		status, message := statusForError(err, "Failed to read file")
		if status == http.StatusInternalServerError {
			slog.ErrorContext(ctx, "download failed", "name", name, "error", err)
		}
		writeJSONError(c, status, message)
		return
	}
	defer stored.Content.Close()

	c.Header("Content-Type", stored.ContentType)
	http.ServeContent(c.Writer, c.Request, stored.Name, stored.ModTime, stored.Content)
}

// Health handles GET /health
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Health(c.Request.Context()))
}

// NotFound answers requests that match no route
func (h *HTTPHandler) NotFound(c *gin.Context) {
	writeJSONError(c, http.StatusNotFound, "File not found")
}

// statusForError maps domain errors to a status and the message shown to
// clients; anything unrecognised is a 500 carrying fallback.
func statusForError(err error, fallback string) (int, string) {
	switch {
	case isTooLarge(err):
		return http.StatusRequestEntityTooLarge, "File too large"
	case errors.Is(err, ErrNoFile):
		return http.StatusBadRequest, "No file provided"
	case errors.Is(err, ErrEmptyFilename):
		return http.StatusBadRequest, "No file selected"
	case errors.Is(err, ErrTypeNotAllowed):
		return http.StatusBadRequest, "File type not allowed"
	case errors.Is(err, ErrContentMismatch):
		return http.StatusBadRequest, "File content does not match extension"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "File not found"
	default:
		return http.StatusInternalServerError, fallback
	}
}

func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr) || errors.Is(err, ErrFileTooLarge)
}

func writeJSONError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error:   message,
	})
}
