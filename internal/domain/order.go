package domain

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID               uint
	OrderID          string
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    *string
	CustomerAddress  *string
	DeliveryLocation *string
	Notes            *string
	Items            []LineItem
	Subtotal         float64
	Shipping         float64
	Tax              float64
	Total            float64
	Profit           float64
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LineItem is owned by its Order. PurchasingPrice is the product's purchasing
// price frozen at intake; nil means the product could not be resolved.
type LineItem struct {
	ID              uint
	OrderID         uint
	ProductID       int
	ProductName     string
	Quantity        int
	Price           float64
	PurchasingPrice *float64
}

const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusCompleted  = "Completed"
	OrderStatusCancelled  = "Cancelled"
)

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsCompletionEdge reports whether moving from oldStatus to newStatus must
// apply the stock decrement and the invoice notification.
func IsCompletionEdge(oldStatus, newStatus string) bool {
	return oldStatus != OrderStatusCompleted && newStatus == OrderStatusCompleted
}

// LineProfit is zero for lines without a purchasing price snapshot.
func (li LineItem) LineProfit() decimal.Decimal {
	if li.PurchasingPrice == nil {
		return decimal.Zero
	}
	margin := decimal.NewFromFloat(li.Price).Sub(decimal.NewFromFloat(*li.PurchasingPrice))
	return margin.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func (li LineItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(li.Price).Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func CalculateProfit(items []LineItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineProfit())
	}
	return total.InexactFloat64()
}

func CalculateSubtotal(items []LineItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total.InexactFloat64()
}

// AmountsBalance checks total == subtotal + shipping + tax to the cent.
func AmountsBalance(subtotal, shipping, tax, total float64) bool {
	expected := decimal.NewFromFloat(subtotal).
		Add(decimal.NewFromFloat(shipping)).
		Add(decimal.NewFromFloat(tax)).
		Round(2)
	return expected.Equal(decimal.NewFromFloat(total).Round(2))
}

const orderIDSuffixSpace = 36 * 36 * 36 * 36 * 36

// NewOrderID builds "ORD-" + base36 millisecond timestamp + 5 random base36 characters.
func NewOrderID(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	u := uuid.New()
	n := binary.BigEndian.Uint64(u[8:]) % orderIDSuffixSpace
	suffix := strings.ToUpper(strconv.FormatUint(n, 36))
	return "ORD-" + ts + strings.Repeat("0", 5-len(suffix)) + suffix
}

func (o Order) ProductIDs() []int {
	seen := make(map[int]bool, len(o.Items))
	ids := make([]int, 0, len(o.Items))
	for _, item := range o.Items {
		if item.ProductID <= 0 || seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		ids = append(ids, item.ProductID)
	}
	return ids
}

type OrderFilter struct {
	Status string
	Search string
	Limit  int
}
