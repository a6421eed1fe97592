package domain

import "time"

const (
	RecentOrdersLimit = 5
	ProfitDailyWindow = 30
	// months, current one included
	ProfitMonthlyWindow = 12
)

type ProfitBucket struct {
	Period string
	Profit float64
}

type ProfitSummary struct {
	Total     float64
	Today     float64
	ThisMonth float64
	ThisYear  float64
	Daily     []ProfitBucket
	Monthly   []ProfitBucket
}

type DashboardStats struct {
	TotalRevenue       float64
	TotalOrders        int
	TotalProducts      int
	TotalCustomers     int
	RecentOrders       []Order
	OutOfStockProducts []Product
	Profit             ProfitSummary
}

// ProfitWindows holds the period starts used by the dashboard, all in UTC.
type ProfitWindows struct {
	Today       time.Time
	Month       time.Time
	Year        time.Time
	DailyFrom   time.Time
	MonthlyFrom time.Time
}

func NewProfitWindows(now time.Time) ProfitWindows {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	return ProfitWindows{
		Today:       today,
		Month:       month,
		Year:        time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		DailyFrom:   today.AddDate(0, 0, -(ProfitDailyWindow - 1)),
		MonthlyFrom: month.AddDate(0, -(ProfitMonthlyWindow - 1), 0),
	}
}
