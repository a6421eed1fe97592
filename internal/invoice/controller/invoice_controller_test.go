package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wego/internal/domain"
	"wego/internal/dto"
	apperrors "wego/internal/errors"
)

type stubRenderer struct {
	invoice *domain.Invoice
	err     error
}

func (s stubRenderer) Render(ctx context.Context, orderID string) (*domain.Invoice, error) {
	return s.invoice, s.err
}

type memorySettings struct {
	stored *domain.InvoiceSettings
}

func (m *memorySettings) Get(ctx context.Context) (*domain.InvoiceSettings, error) {
	if m.stored == nil {
		d := domain.DefaultInvoiceSettings()
		m.stored = &d
	}
	return m.stored, nil
}

func (m *memorySettings) Upsert(ctx context.Context, s domain.InvoiceSettings) (*domain.InvoiceSettings, error) {
	m.stored = &s
	return m.stored, nil
}

func newRouter(ctrl *Controller) http.Handler {
	r := chi.NewRouter()
	r.Get("/invoices/settings", ctrl.GetSettings)
	r.Put("/invoices/settings", ctrl.UpdateSettings)
	r.Get("/invoices/{orderId}/pdf", ctrl.DownloadPDF)
	return r
}

func TestDownloadPDF_Attachment(t *testing.T) {
	ctrl := NewController(stubRenderer{invoice: &domain.Invoice{
		Order: domain.Order{OrderID: "ORD-1"},
		PDF:   []byte("%PDF-1.3 test"),
	}}, &memorySettings{}, zap.NewNop())

	rec := httptest.NewRecorder()
	newRouter(ctrl).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/ORD-1/pdf", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoice-ORD-1.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestDownloadPDF_NotFound(t *testing.T) {
	ctrl := NewController(stubRenderer{err: apperrors.NewNotFoundError("Order not found")}, &memorySettings{}, zap.NewNop())

	rec := httptest.NewRecorder()
	newRouter(ctrl).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/ORD-404/pdf", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettings_GetReturnsDefaults(t *testing.T) {
	ctrl := NewController(stubRenderer{}, &memorySettings{}, zap.NewNop())

	rec := httptest.NewRecorder()
	newRouter(ctrl).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/settings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.InvoiceSettingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Wego Connect", resp.CompanyName)
	assert.Equal(t, "#DC2626", resp.PrimaryColor)
}

func TestSettings_UpdateFillsDefaults(t *testing.T) {
	store := &memorySettings{}
	ctrl := NewController(stubRenderer{}, store, zap.NewNop())

	body := `{"companyName":"Kigali Gadgets","showLogo":false}`
	rec := httptest.NewRecorder()
	newRouter(ctrl).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/invoices/settings", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Kigali Gadgets", store.stored.CompanyName)
	assert.Equal(t, "INV", store.stored.InvoicePrefix)
	assert.False(t, store.stored.ShowLogo)
}

func TestSettings_UpdateValidation(t *testing.T) {
	ctrl := NewController(stubRenderer{}, &memorySettings{}, zap.NewNop())

	body := `{"companyName":"","primaryColor":"red"}`
	rec := httptest.NewRecorder()
	newRouter(ctrl).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/invoices/settings", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "companyName")
	assert.Contains(t, rec.Body.String(), "primaryColor")
}
