package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
)

type memoryAdmins struct {
	admins map[string]domain.Admin
}

func newMemoryAdmins() *memoryAdmins {
	return &memoryAdmins{admins: map[string]domain.Admin{}}
}

func (m *memoryAdmins) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	a, ok := m.admins[email]
	if !ok {
		return nil, apperrors.NewNotFoundError("Admin not found")
	}
	return &a, nil
}

func (m *memoryAdmins) Insert(ctx context.Context, a domain.Admin) (uint, error) {
	if _, ok := m.admins[a.Email]; ok {
		return 0, apperrors.NewConflictError("Admin with this email already exists")
	}
	a.ID = uint(len(m.admins) + 1)
	m.admins[a.Email] = a
	return a.ID, nil
}

func newTestAuthUseCase(repo AdminRepository) *AuthUseCase {
	uc := NewAuthUseCase(repo, zap.NewNop())
	uc.cost = bcrypt.MinCost
	return uc
}

func TestRegister_HashesAndNormalizes(t *testing.T) {
	repo := newMemoryAdmins()
	uc := newTestAuthUseCase(repo)

	admin, err := uc.Register(context.Background(), "  Admin@Example.COM ", "secret1", "Admin")
	require.NoError(t, err)

	assert.Equal(t, "admin@example.com", admin.Email)
	stored := repo.admins["admin@example.com"]
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestRegister_ShortPassword(t *testing.T) {
	uc := newTestAuthUseCase(newMemoryAdmins())

	_, err := uc.Register(context.Background(), "admin@example.com", "12345", "")

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "password", ve.Details[0].Field)
}

func TestRegister_DuplicateIsConflict(t *testing.T) {
	uc := newTestAuthUseCase(newMemoryAdmins())
	ctx := context.Background()

	_, err := uc.Register(ctx, "admin@example.com", "secret1", "")
	require.NoError(t, err)

	_, err = uc.Register(ctx, "ADMIN@example.com", "secret2", "")
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
}

func TestLogin(t *testing.T) {
	repo := newMemoryAdmins()
	uc := newTestAuthUseCase(repo)
	ctx := context.Background()

	_, err := uc.Register(ctx, "admin@example.com", "secret1", "Admin")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantOK   bool
	}{
		{"valid", " Admin@example.com", "secret1", true},
		{"wrong password", "admin@example.com", "secret2", false},
		{"unknown email", "other@example.com", "secret1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin, err := uc.Login(ctx, tt.email, tt.password)
			if tt.wantOK {
				require.NoError(t, err)
				assert.Equal(t, "Admin", admin.Name)
				return
			}
			_, ok := apperrors.IsUnauthorizedError(err)
			assert.True(t, ok)
		})
	}
}

func TestLogin_PlaintextStoredPasswordRejected(t *testing.T) {
	repo := newMemoryAdmins()
	repo.admins["legacy@example.com"] = domain.Admin{ID: 1, Email: "legacy@example.com", PasswordHash: "secret1"}
	uc := newTestAuthUseCase(repo)

	_, err := uc.Login(context.Background(), "legacy@example.com", "secret1")

	_, ok := apperrors.IsUnauthorizedError(err)
	assert.True(t, ok)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	repo := newMemoryAdmins()
	uc := newTestAuthUseCase(repo)
	ctx := context.Background()

	require.NoError(t, uc.EnsureDefaultAdmin(ctx, "Owner@example.com", "secret1", "Owner"))
	require.NoError(t, uc.EnsureDefaultAdmin(ctx, "owner@example.com", "changed", "Owner"))

	assert.Len(t, repo.admins, 1)
	_, err := uc.Login(ctx, "owner@example.com", "secret1")
	assert.NoError(t, err, "existing admin keeps its password")

	require.NoError(t, uc.EnsureDefaultAdmin(ctx, "", "", ""))
}
