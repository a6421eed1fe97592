package usecase

import (
	"context"
	"net/mail"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
)

type SubscriberRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	List(ctx context.Context, filter domain.SubscriberFilter) ([]domain.Subscriber, error)
	Insert(ctx context.Context, s domain.Subscriber) (*domain.Subscriber, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.Subscriber, error)
	Reactivate(ctx context.Context, id primitive.ObjectID, name string) (*domain.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) (*domain.Subscriber, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type SubscribersUseCase struct {
	repo   SubscriberRepository
	logger *zap.Logger
}

func NewSubscribersUseCase(repo SubscriberRepository, logger *zap.Logger) *SubscribersUseCase {
	return &SubscribersUseCase{repo: repo, logger: logger}
}

// RegisterFromOrder adds the customer of a new order to the mailing list.
// An inactive subscriber is reactivated with the new name, an active one is
// left as is.
func (uc *SubscribersUseCase) RegisterFromOrder(ctx context.Context, email, name string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil
	}

	existing, err := uc.repo.FindByEmail(ctx, email)
	if err == nil {
		if existing.IsActive {
			return nil
		}
		if _, err := uc.repo.Reactivate(ctx, existing.ID, name); err != nil {
			return err
		}
		uc.logger.Info("subscriber reactivated from order", zap.String("email", email))
		return nil
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return err
	}

	_, err = uc.repo.Insert(ctx, domain.Subscriber{
		Email:    email,
		Name:     name,
		IsActive: true,
		Source:   domain.SubscriberSourceOrder,
	})
	if _, ok := apperrors.IsConflictError(err); ok {
		// lost a race with a concurrent order from the same customer
		return nil
	}
	if err != nil {
		return err
	}

	uc.logger.Info("subscriber added from order", zap.String("email", email))
	return nil
}

func (uc *SubscribersUseCase) List(ctx context.Context, filter domain.SubscriberFilter) ([]domain.Subscriber, error) {
	return uc.repo.List(ctx, filter)
}

// Add creates a subscriber manually. Re-adding an inactive email reactivates
// it and reports created=false; an active duplicate is a ConflictError.
func (uc *SubscribersUseCase) Add(ctx context.Context, email, name, source string) (*domain.Subscriber, bool, error) {
	email = domain.NormalizeEmail(email)
	if source == "" {
		source = domain.SubscriberSourceManual
	}

	if err := validateSubscriber(email, source); err != nil {
		return nil, false, err
	}

	existing, err := uc.repo.FindByEmail(ctx, email)
	if err == nil {
		if existing.IsActive {
			return nil, false, apperrors.NewConflictError("Subscriber with this email already exists")
		}
		s, err := uc.repo.Reactivate(ctx, existing.ID, name)
		return s, false, err
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return nil, false, err
	}

	s, err := uc.repo.Insert(ctx, domain.Subscriber{
		Email:    email,
		Name:     name,
		IsActive: true,
		Source:   source,
	})
	if err != nil {
		return nil, false, err
	}

	uc.logger.Info("subscriber added", zap.String("email", email), zap.String("source", source))
	return s, true, nil
}

func (uc *SubscribersUseCase) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.Subscriber, error) {
	return uc.repo.SetActive(ctx, id, active)
}

func (uc *SubscribersUseCase) Unsubscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "email",
			Message: "email is required",
		})
	}

	s, err := uc.repo.Unsubscribe(ctx, email)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("subscriber unsubscribed", zap.String("email", email))
	return s, nil
}

func (uc *SubscribersUseCase) Delete(ctx context.Context, id primitive.ObjectID) error {
	return uc.repo.Delete(ctx, id)
}

func validateSubscriber(email, source string) error {
	var details []apperrors.ValidationDetail

	if email == "" {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "email must be a valid email address"})
	}

	if !domain.ValidSubscriberSource(source) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "source",
			Message: "source must be one of: order, manual, website",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
