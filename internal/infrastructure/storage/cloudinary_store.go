package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"wego/internal/config"
)

// ErrNotConfigured is returned when no Cloudinary credentials were given.
var ErrNotConfigured = errors.New("storage: cloudinary credentials not configured")

// Images are capped at 800x800 and recompressed on upload.
const imageTransformation = "c_limit,w_800,h_800/q_auto"

type UploadResult struct {
	URL      string
	PublicID string
	Width    int
	Height   int
	Bytes    int
}

// uploadAPI is the part of the Cloudinary upload API the store uses.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type CloudinaryStore struct {
	api    uploadAPI
	folder string
	logger *zap.Logger
}

// NewCloudinaryStore builds the image store. Without credentials every call
// fails with ErrNotConfigured.
func NewCloudinaryStore(cfg config.CloudinaryConfig, logger *zap.Logger) (*CloudinaryStore, error) {
	s := &CloudinaryStore{folder: cfg.Folder, logger: logger}
	if !cfg.Enabled() {
		logger.Warn("cloudinary not configured, image upload disabled")
		return s, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("creating cloudinary client: %w", err)
	}
	s.api = &cld.Upload
	return s, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, filename string, r io.Reader) (UploadResult, error) {
	if s.api == nil {
		return UploadResult{}, ErrNotConfigured
	}

	resp, err := s.api.Upload(ctx, r, uploader.UploadParams{
		Folder:         s.folder,
		Transformation: imageTransformation,
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("uploading %s: %w", filename, err)
	}
	if resp.Error.Message != "" {
		return UploadResult{}, fmt.Errorf("uploading %s: %s", filename, resp.Error.Message)
	}

	s.logger.Info("image uploaded",
		zap.String("filename", filename),
		zap.String("publicId", resp.PublicID),
		zap.Int("bytes", resp.Bytes),
	)

	return UploadResult{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
		Width:    resp.Width,
		Height:   resp.Height,
		Bytes:    resp.Bytes,
	}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if s.api == nil {
		return ErrNotConfigured
	}

	resp, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("deleting %s: %w", publicID, err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("deleting %s: %s", publicID, resp.Error.Message)
	}

	s.logger.Info("image deleted", zap.String("publicId", publicID), zap.String("result", resp.Result))
	return nil
}
