package dto

import (
	"strings"
	"time"

	"wego/internal/domain"
)

type LineItemRequest struct {
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type CreateOrderRequest struct {
	CustomerName     string            `json:"customerName"`
	CustomerEmail    string            `json:"customerEmail"`
	CustomerPhone    *string           `json:"customerPhone,omitempty"`
	CustomerAddress  *string           `json:"customerAddress,omitempty"`
	DeliveryLocation *string           `json:"deliveryLocation,omitempty"`
	Notes            *string           `json:"notes,omitempty"`
	Items            []LineItemRequest `json:"items"`
	Subtotal         float64           `json:"subtotal"`
	Shipping         float64           `json:"shipping"`
	Tax              float64           `json:"tax"`
	Total            float64           `json:"total"`
}

// ToDomain maps the request to a draft order. Intake fills in the rest.
func (r CreateOrderRequest) ToDomain() domain.Order {
	items := make([]domain.LineItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = domain.LineItem{
			ProductID:   item.ProductID,
			ProductName: strings.TrimSpace(item.ProductName),
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
	}

	return domain.Order{
		CustomerName:     strings.TrimSpace(r.CustomerName),
		CustomerEmail:    strings.TrimSpace(r.CustomerEmail),
		CustomerPhone:    r.CustomerPhone,
		CustomerAddress:  r.CustomerAddress,
		DeliveryLocation: r.DeliveryLocation,
		Notes:            r.Notes,
		Items:            items,
		Subtotal:         r.Subtotal,
		Shipping:         r.Shipping,
		Tax:              r.Tax,
		Total:            r.Total,
	}
}

type ReplaceOrderRequest struct {
	CustomerName     string  `json:"customerName"`
	CustomerEmail    string  `json:"customerEmail"`
	CustomerPhone    *string `json:"customerPhone,omitempty"`
	CustomerAddress  *string `json:"customerAddress,omitempty"`
	DeliveryLocation *string `json:"deliveryLocation,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	Subtotal         float64 `json:"subtotal"`
	Shipping         float64 `json:"shipping"`
	Tax              float64 `json:"tax"`
	Total            float64 `json:"total"`
	Status           string  `json:"status"`
}

func (r ReplaceOrderRequest) ToDomain(id uint) domain.Order {
	return domain.Order{
		ID:               id,
		CustomerName:     strings.TrimSpace(r.CustomerName),
		CustomerEmail:    strings.TrimSpace(r.CustomerEmail),
		CustomerPhone:    r.CustomerPhone,
		CustomerAddress:  r.CustomerAddress,
		DeliveryLocation: r.DeliveryLocation,
		Notes:            r.Notes,
		Subtotal:         r.Subtotal,
		Shipping:         r.Shipping,
		Tax:              r.Tax,
		Total:            r.Total,
		Status:           r.Status,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type LineItemResponse struct {
	ProductID       int      `json:"productId"`
	ProductName     string   `json:"productName"`
	Quantity        int      `json:"quantity"`
	Price           float64  `json:"price"`
	PurchasingPrice *float64 `json:"purchasingPrice"`
}

type OrderResponse struct {
	ID               uint               `json:"id"`
	OrderID          string             `json:"orderId"`
	CustomerName     string             `json:"customerName"`
	CustomerEmail    string             `json:"customerEmail"`
	CustomerPhone    *string            `json:"customerPhone,omitempty"`
	CustomerAddress  *string            `json:"customerAddress,omitempty"`
	DeliveryLocation *string            `json:"deliveryLocation,omitempty"`
	Notes            *string            `json:"notes,omitempty"`
	Items            []LineItemResponse `json:"items"`
	Subtotal         float64            `json:"subtotal"`
	Shipping         float64            `json:"shipping"`
	Tax              float64            `json:"tax"`
	Total            float64            `json:"total"`
	Profit           float64            `json:"profit"`
	Status           string             `json:"status"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

func NewOrderResponse(o domain.Order) OrderResponse {
	items := make([]LineItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = LineItemResponse{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			Price:           item.Price,
			PurchasingPrice: item.PurchasingPrice,
		}
	}

	return OrderResponse{
		ID:               o.ID,
		OrderID:          o.OrderID,
		CustomerName:     o.CustomerName,
		CustomerEmail:    o.CustomerEmail,
		CustomerPhone:    o.CustomerPhone,
		CustomerAddress:  o.CustomerAddress,
		DeliveryLocation: o.DeliveryLocation,
		Notes:            o.Notes,
		Items:            items,
		Subtotal:         o.Subtotal,
		Shipping:         o.Shipping,
		Tax:              o.Tax,
		Total:            o.Total,
		Profit:           o.Profit,
		Status:           o.Status,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func NewOrderListResponse(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = NewOrderResponse(o)
	}
	return out
}

// TransitionResult is the outcome of a status change. DepletedProducts holds
// the names of products whose stock reached zero during this transition.
type TransitionResult struct {
	Order            *domain.Order
	PreviousStatus   string
	Completed        bool
	DepletedProducts []string
}

type LowStockAlert struct {
	Message  string   `json:"message"`
	Products []string `json:"products"`
}

// NewLowStockAlert returns nil when no product ran out.
func NewLowStockAlert(products []string) *LowStockAlert {
	if len(products) == 0 {
		return nil
	}
	return &LowStockAlert{
		Message:  "The following products are now out of stock: " + strings.Join(products, ", "),
		Products: products,
	}
}

type StatusTransitionResponse struct {
	OrderResponse
	LowStockAlert *LowStockAlert `json:"lowStockAlert,omitempty"`
}
