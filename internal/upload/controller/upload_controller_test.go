package controller

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wego/internal/infrastructure/storage"
)

type stubStore struct {
	uploaded  []byte
	deleted   string
	uploadErr error
}

func (s *stubStore) Upload(ctx context.Context, filename string, r io.Reader) (storage.UploadResult, error) {
	if s.uploadErr != nil {
		return storage.UploadResult{}, s.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.UploadResult{}, err
	}
	s.uploaded = data
	return storage.UploadResult{URL: "https://cdn.example.com/" + filename, PublicID: "wego/" + filename}, nil
}

func (s *stubStore) Delete(ctx context.Context, publicID string) error {
	s.deleted = publicID
	return nil
}

func multipartRequest(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImage_OK(t *testing.T) {
	store := &stubStore{}
	ctrl := NewController(store, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.UploadImage(rec, multipartRequest(t, "image", "lamp.png", "image/png", []byte("png-bytes")))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"url":"https://cdn.example.com/lamp.png","publicId":"wego/lamp.png"}`, rec.Body.String())
	assert.Equal(t, []byte("png-bytes"), store.uploaded)
}

func TestUploadImage_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		contentType string
		size        int
		wantStatus  int
	}{
		{"missing field", "file", "image/png", 10, http.StatusBadRequest},
		{"not an image", "image", "application/pdf", 10, http.StatusBadRequest},
		{"too large", "image", "image/jpeg", maxImageSize + 1, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{}
			ctrl := NewController(store, zap.NewNop())

			rec := httptest.NewRecorder()
			ctrl.UploadImage(rec, multipartRequest(t, tt.field, "x.bin", tt.contentType, make([]byte, tt.size)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Nil(t, store.uploaded)
		})
	}
}

func TestUploadImage_NotConfigured(t *testing.T) {
	ctrl := NewController(&stubStore{uploadErr: storage.ErrNotConfigured}, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.UploadImage(rec, multipartRequest(t, "image", "a.png", "image/png", []byte("x")))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDeleteImage_WildcardPublicID(t *testing.T) {
	store := &stubStore{}
	ctrl := NewController(store, zap.NewNop())

	r := chi.NewRouter()
	r.Delete("/api/upload/image/*", ctrl.DeleteImage)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/upload/image/wego/lamp", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "wego/lamp", store.deleted)
}
