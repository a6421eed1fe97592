package dto

import "wego/internal/domain"

type ProfitBucketResponse struct {
	Period string  `json:"period"`
	Profit float64 `json:"profit"`
}

type ProfitResponse struct {
	Total     float64                `json:"total"`
	Today     float64                `json:"today"`
	ThisMonth float64                `json:"thisMonth"`
	ThisYear  float64                `json:"thisYear"`
	Daily     []ProfitBucketResponse `json:"daily"`
	Monthly   []ProfitBucketResponse `json:"monthly"`
}

type OutOfStockProductResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Stock    int    `json:"stock"`
}

type DashboardStatsResponse struct {
	TotalRevenue       float64                     `json:"totalRevenue"`
	TotalOrders        int                         `json:"totalOrders"`
	TotalProducts      int                         `json:"totalProducts"`
	TotalCustomers     int                         `json:"totalCustomers"`
	RecentOrders       []OrderResponse             `json:"recentOrders"`
	OutOfStockProducts []OutOfStockProductResponse `json:"outOfStockProducts"`
	Profit             ProfitResponse              `json:"profit"`
}

func newProfitBuckets(buckets []domain.ProfitBucket) []ProfitBucketResponse {
	out := make([]ProfitBucketResponse, len(buckets))
	for i, b := range buckets {
		out[i] = ProfitBucketResponse{Period: b.Period, Profit: b.Profit}
	}
	return out
}

func NewDashboardStatsResponse(s domain.DashboardStats) DashboardStatsResponse {
	outOfStock := make([]OutOfStockProductResponse, len(s.OutOfStockProducts))
	for i, p := range s.OutOfStockProducts {
		outOfStock[i] = OutOfStockProductResponse{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Image:    p.Image,
			Stock:    p.Stock,
		}
	}

	return DashboardStatsResponse{
		TotalRevenue:       s.TotalRevenue,
		TotalOrders:        s.TotalOrders,
		TotalProducts:      s.TotalProducts,
		TotalCustomers:     s.TotalCustomers,
		RecentOrders:       NewOrderListResponse(s.RecentOrders),
		OutOfStockProducts: outOfStock,
		Profit: ProfitResponse{
			Total:     s.Profit.Total,
			Today:     s.Profit.Today,
			ThisMonth: s.Profit.ThisMonth,
			ThisYear:  s.Profit.ThisYear,
			Daily:     newProfitBuckets(s.Profit.Daily),
			Monthly:   newProfitBuckets(s.Profit.Monthly),
		},
	}
}
