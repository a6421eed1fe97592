package controller

import (
	"context"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"wego/internal/commons"
	"wego/internal/domain"
	"wego/internal/dto"
	apperrors "wego/internal/errors"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type InvoiceRenderer interface {
	Render(ctx context.Context, orderID string) (*domain.Invoice, error)
}

type SettingsStore interface {
	Get(ctx context.Context) (*domain.InvoiceSettings, error)
	Upsert(ctx context.Context, s domain.InvoiceSettings) (*domain.InvoiceSettings, error)
}

type Controller struct {
	invoices InvoiceRenderer
	settings SettingsStore
	logger   *zap.Logger
}

func NewController(invoices InvoiceRenderer, settings SettingsStore, logger *zap.Logger) *Controller {
	return &Controller{
		invoices: invoices,
		settings: settings,
		logger:   logger,
	}
}

func (c *Controller) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		commons.WriteValidationError(w, logger, "invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId is required",
		})
		return
	}

	invoice, err := c.invoices.Render(r.Context(), orderID)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+invoice.FileName()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(invoice.PDF)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(invoice.PDF); err != nil {
		logger.Warn("failed to write invoice pdf", zap.String("orderId", orderID), zap.Error(err))
	}
}

func (c *Controller) GetSettings(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	settings, err := c.settings.Get(r.Context())
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewInvoiceSettingsResponse(*settings), logger)
}

func (c *Controller) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	var req dto.InvoiceSettingsRequest
	if !commons.DecodeJSON(w, r, &req, logger) {
		return
	}

	settings := req.ToDomain()
	if validationErr := validateSettings(settings); validationErr != nil {
		commons.WriteValidationError(w, logger, validationErr.Message, validationErr.Details...)
		return
	}

	stored, err := c.settings.Upsert(r.Context(), settings)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	logger.Info("invoice settings updated", zap.String("companyName", stored.CompanyName))
	commons.WriteJSON(w, http.StatusOK, dto.NewInvoiceSettingsResponse(*stored), logger)
}

func validateSettings(s domain.InvoiceSettings) *apperrors.ValidationError {
	var details []apperrors.ValidationDetail

	if s.CompanyName == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "companyName",
			Message: "companyName is required",
		})
	}
	if !hexColorPattern.MatchString(s.PrimaryColor) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "primaryColor",
			Message: "primaryColor must be a hex color like #DC2626",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
