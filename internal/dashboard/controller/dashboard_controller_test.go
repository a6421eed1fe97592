package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wego/internal/domain"
	"wego/internal/dto"
)

type stubStatsUseCase struct {
	stats *domain.DashboardStats
	err   error
}

func (s stubStatsUseCase) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	return s.stats, s.err
}

func TestStats_OK(t *testing.T) {
	ctrl := NewController(stubStatsUseCase{stats: &domain.DashboardStats{
		TotalRevenue: 4500,
		Profit: domain.ProfitSummary{
			Total: 1000,
			Daily: []domain.ProfitBucket{{Period: "2024-03-15", Profit: 800}},
		},
	}}, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.DashboardStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4500.0, resp.TotalRevenue)
	assert.Equal(t, 1000.0, resp.Profit.Total)
	assert.Equal(t, "2024-03-15", resp.Profit.Daily[0].Period)
	assert.NotNil(t, resp.RecentOrders)
	assert.NotNil(t, resp.Profit.Monthly)
}

func TestStats_StoreFailureIs500(t *testing.T) {
	ctrl := NewController(stubStatsUseCase{err: errors.New("connection refused")}, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
