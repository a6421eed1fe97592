package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"wego/internal/commons"
	"wego/internal/domain"
	"wego/internal/dto"
	apperrors "wego/internal/errors"
)

type AuthUseCase interface {
	Login(ctx context.Context, email, password string) (*domain.Admin, error)
	Register(ctx context.Context, email, password, name string) (*domain.Admin, error)
}

type Controller struct {
	useCase AuthUseCase
	logger  *zap.Logger
}

func NewController(useCase AuthUseCase, logger *zap.Logger) *Controller {
	return &Controller{useCase: useCase, logger: logger}
}

func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	var req dto.LoginRequest
	if !commons.DecodeJSON(w, r, &req, logger) {
		return
	}

	if req.Email == "" || req.Password == "" {
		commons.WriteValidationError(w, logger, "email and password are required",
			apperrors.ValidationDetail{Field: "email", Message: "email is required"},
			apperrors.ValidationDetail{Field: "password", Message: "password is required"},
		)
		return
	}

	admin, err := c.useCase.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewAuthResponse("Login successful", *admin), logger)
}

func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	var req dto.RegisterRequest
	if !commons.DecodeJSON(w, r, &req, logger) {
		return
	}

	admin, err := c.useCase.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.NewAuthResponse("Admin registered successfully", *admin), logger)
}
