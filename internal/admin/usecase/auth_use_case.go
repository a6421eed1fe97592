package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
)

const invalidCredentials = "Invalid email or password"

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Insert(ctx context.Context, a domain.Admin) (uint, error)
}

type AuthUseCase struct {
	repo   AdminRepository
	cost   int
	logger *zap.Logger
}

func NewAuthUseCase(repo AdminRepository, logger *zap.Logger) *AuthUseCase {
	return &AuthUseCase{repo: repo, cost: bcrypt.DefaultCost, logger: logger}
}

// Login accepts bcrypt hashes only. Unknown email and wrong password fail
// with the same UnauthorizedError.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*domain.Admin, error) {
	email = domain.NormalizeEmail(email)

	admin, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			uc.logger.Warn("login attempt for unknown admin", zap.String("email", email))
			return nil, apperrors.NewUnauthorizedError(invalidCredentials)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.logger.Error("stored admin password is not a bcrypt hash", zap.Uint("adminId", admin.ID), zap.Error(err))
		}
		return nil, apperrors.NewUnauthorizedError(invalidCredentials)
	}

	uc.logger.Info("admin logged in", zap.Uint("adminId", admin.ID))
	return admin, nil
}

func (uc *AuthUseCase) Register(ctx context.Context, email, password, name string) (*domain.Admin, error) {
	email = domain.NormalizeEmail(email)

	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.cost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	admin := domain.Admin{Email: email, Name: name, PasswordHash: string(hash)}
	id, err := uc.repo.Insert(ctx, admin)
	if err != nil {
		return nil, err
	}
	admin.ID = id

	uc.logger.Info("admin registered", zap.Uint("adminId", id), zap.String("email", email))
	return &admin, nil
}

// EnsureDefaultAdmin creates the configured admin when it does not exist yet.
func (uc *AuthUseCase) EnsureDefaultAdmin(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		uc.logger.Debug("no default admin configured")
		return nil
	}

	_, err := uc.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err == nil {
		return nil
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return err
	}

	_, err = uc.Register(ctx, email, password, name)
	if _, ok := apperrors.IsConflictError(err); ok {
		return nil
	}
	return err
}

func validateCredentials(email, password string) error {
	var details []apperrors.ValidationDetail

	if email == "" {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "email is required"})
	}
	if len(password) < domain.MinPasswordLength {
		details = append(details, apperrors.ValidationDetail{
			Field:   "password",
			Message: "password must be at least 6 characters",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
