package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
)

type stubAuth struct {
	admin *domain.Admin
	err   error
}

func (s stubAuth) Login(ctx context.Context, email, password string) (*domain.Admin, error) {
	return s.admin, s.err
}

func (s stubAuth) Register(ctx context.Context, email, password, name string) (*domain.Admin, error) {
	return s.admin, s.err
}

func TestLogin_Responses(t *testing.T) {
	tests := []struct {
		name       string
		auth       stubAuth
		body       string
		wantStatus int
	}{
		{"ok", stubAuth{admin: &domain.Admin{ID: 1, Email: "a@example.com"}}, `{"email":"a@example.com","password":"secret1"}`, http.StatusOK},
		{"bad credentials", stubAuth{err: apperrors.NewUnauthorizedError("Invalid email or password")}, `{"email":"a@example.com","password":"nope00"}`, http.StatusUnauthorized},
		{"missing fields", stubAuth{}, `{"email":""}`, http.StatusBadRequest},
		{"bad json", stubAuth{}, `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewController(tt.auth, zap.NewNop())
			rec := httptest.NewRecorder()
			ctrl.Login(rec, httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestLogin_DoesNotLeakHash(t *testing.T) {
	ctrl := NewController(stubAuth{admin: &domain.Admin{ID: 1, Email: "a@example.com", PasswordHash: "$2a$10$secret"}}, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.Login(rec, httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"email":"a@example.com","password":"secret1"}`)))

	assert.NotContains(t, rec.Body.String(), "$2a$10$secret")
}

func TestRegister_Conflict(t *testing.T) {
	ctrl := NewController(stubAuth{err: apperrors.NewConflictError("Admin with this email already exists")}, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.Register(rec, httptest.NewRequest(http.MethodPost, "/api/admin/register", strings.NewReader(`{"email":"a@example.com","password":"secret1"}`)))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_Created(t *testing.T) {
	ctrl := NewController(stubAuth{admin: &domain.Admin{ID: 2, Email: "b@example.com"}}, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.Register(rec, httptest.NewRequest(http.MethodPost, "/api/admin/register", strings.NewReader(`{"email":"b@example.com","password":"secret1"}`)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"b@example.com"`)
}
