package controller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"wego/internal/commons"
	"wego/internal/infrastructure/storage"
)

const (
	maxImageSize   = 5 << 20
	multipartSlack = 1 << 20
	imageField     = "image"
)

type ImageStore interface {
	Upload(ctx context.Context, filename string, r io.Reader) (storage.UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

type Controller struct {
	store  ImageStore
	logger *zap.Logger
}

func NewController(store ImageStore, logger *zap.Logger) *Controller {
	return &Controller{store: store, logger: logger}
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

func (c *Controller) UploadImage(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+multipartSlack)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			commons.WriteError(w, traceID, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "image must be 5MB or smaller", logger)
			return
		}
		commons.WriteError(w, traceID, http.StatusBadRequest, "BAD_REQUEST", "request must be multipart/form-data", logger)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(imageField)
	if err != nil {
		commons.WriteError(w, traceID, http.StatusBadRequest, "BAD_REQUEST", "No image file provided", logger)
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		commons.WriteError(w, traceID, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "image must be 5MB or smaller", logger)
		return
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		commons.WriteError(w, traceID, http.StatusBadRequest, "BAD_REQUEST", "Only image files are allowed", logger)
		return
	}

	result, err := c.store.Upload(r.Context(), header.Filename, file)
	if err != nil {
		c.writeStoreError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, uploadResponse{
		Success:  true,
		URL:      result.URL,
		PublicID: result.PublicID,
	}, logger)
}

// DeleteImage takes the public id as a wildcard since it contains the folder.
func (c *Controller) DeleteImage(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	publicID := chi.URLParam(r, "*")
	if publicID == "" {
		commons.WriteError(w, traceID, http.StatusBadRequest, "BAD_REQUEST", "publicId is required", logger)
		return
	}

	if err := c.store.Delete(r.Context(), publicID); err != nil {
		c.writeStoreError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, map[string]any{"success": true}, logger)
}

func (c *Controller) writeStoreError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if errors.Is(err, storage.ErrNotConfigured) {
		commons.WriteError(w, traceID, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "image storage is not configured", logger)
		return
	}
	logger.Error("image store failed", zap.Error(err))
	commons.WriteError(w, traceID, http.StatusBadGateway, "UPLOAD_FAILED", "Failed to upload image", logger)
}
