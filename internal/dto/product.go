package dto

import (
	"strings"
	"time"

	"wego/internal/domain"
)

type CreateProductRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	PurchasingPrice float64  `json:"purchasingPrice"`
	DiscountPrice   *float64 `json:"discountPrice"`
	MonthlyPrice    *float64 `json:"monthlyPrice"`
	Image           string   `json:"image"`
	Images          []string `json:"images"`
	Category        string   `json:"category"`
	Stock           int      `json:"stock"`
	IsActive        *bool    `json:"isActive"`
}

func (r CreateProductRequest) ToDomain() domain.Product {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return domain.Product{
		Name:            strings.TrimSpace(r.Name),
		Description:     r.Description,
		Price:           r.Price,
		PurchasingPrice: r.PurchasingPrice,
		DiscountPrice:   r.DiscountPrice,
		MonthlyPrice:    r.MonthlyPrice,
		Image:           r.Image,
		Images:          r.Images,
		Category:        strings.TrimSpace(r.Category),
		Stock:           r.Stock,
		IsActive:        active,
	}
}

// UpdateProductRequest is a partial update; omitted fields keep their value.
type UpdateProductRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Price           *float64 `json:"price"`
	PurchasingPrice *float64 `json:"purchasingPrice"`
	DiscountPrice   *float64 `json:"discountPrice"`
	MonthlyPrice    *float64 `json:"monthlyPrice"`
	Image           *string  `json:"image"`
	Images          []string `json:"images"`
	Category        *string  `json:"category"`
	Stock           *int     `json:"stock"`
	IsActive        *bool    `json:"isActive"`
}

func (r UpdateProductRequest) ToPatch() domain.ProductPatch {
	patch := domain.ProductPatch{
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		PurchasingPrice: r.PurchasingPrice,
		MonthlyPrice:    r.MonthlyPrice,
		Image:           r.Image,
		Images:          r.Images,
		Category:        r.Category,
		Stock:           r.Stock,
		IsActive:        r.IsActive,
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if r.DiscountPrice != nil {
		if *r.DiscountPrice < 0 {
			patch.ClearDiscount = true
		} else {
			patch.DiscountPrice = r.DiscountPrice
		}
	}
	return patch
}

type ProductResponse struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	PurchasingPrice float64   `json:"purchasingPrice"`
	DiscountPrice   *float64  `json:"discountPrice"`
	MonthlyPrice    *float64  `json:"monthlyPrice"`
	Image           string    `json:"image"`
	Images          []string  `json:"images"`
	Category        string    `json:"category"`
	Stock           int       `json:"stock"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func NewProductResponse(p domain.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		PurchasingPrice: p.PurchasingPrice,
		DiscountPrice:   p.DiscountPrice,
		MonthlyPrice:    p.MonthlyPrice,
		Image:           p.Image,
		Images:          images,
		Category:        p.Category,
		Stock:           p.Stock,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func NewProductListResponse(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = NewProductResponse(p)
	}
	return out
}
