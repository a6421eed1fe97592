package domain

import "time"

const DefaultCategory = "Uncategorized"

type Product struct {
	ID              int
	Name            string
	Description     string
	Price           float64
	PurchasingPrice float64
	DiscountPrice   *float64
	MonthlyPrice    *float64
	Image           string
	Images          []string
	Category        string
	Stock           int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DecrementStock floors the result at zero. depleted is true only when the
// stock went from a positive value to exactly zero.
func (p Product) DecrementStock(quantity int) (newStock int, depleted bool) {
	newStock = p.Stock - quantity
	if newStock < 0 {
		newStock = 0
	}
	return newStock, p.Stock > 0 && newStock == 0
}

// NormalizeDiscountPrice drops negative discounts.
func NormalizeDiscountPrice(discount *float64) *float64 {
	if discount == nil || *discount < 0 {
		return nil
	}
	d := *discount
	return &d
}

// NormalizeImages puts the primary image first without duplicating it.
func NormalizeImages(primary string, images []string) []string {
	out := make([]string, 0, len(images)+1)
	if primary != "" {
		out = append(out, primary)
	}
	for _, img := range images {
		if img == "" || img == primary {
			continue
		}
		out = append(out, img)
	}
	return out
}

type ProductFilter struct {
	Category string
	Search   string
	IsActive *bool
}

// ProductPatch carries a partial update. Nil fields are left unchanged.
type ProductPatch struct {
	Name            *string
	Description     *string
	Price           *float64
	PurchasingPrice *float64
	DiscountPrice   *float64
	ClearDiscount   bool
	MonthlyPrice    *float64
	Image           *string
	Images          []string
	Category        *string
	Stock           *int
	IsActive        *bool
}

func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.PurchasingPrice != nil {
		p.PurchasingPrice = *patch.PurchasingPrice
	}
	if patch.ClearDiscount {
		p.DiscountPrice = nil
	} else if patch.DiscountPrice != nil {
		p.DiscountPrice = patch.DiscountPrice
	}
	if patch.MonthlyPrice != nil {
		p.MonthlyPrice = patch.MonthlyPrice
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Images != nil {
		p.Images = patch.Images
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
}

// Normalize applies the catalog defaults before a write.
func (p *Product) Normalize() {
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	p.DiscountPrice = NormalizeDiscountPrice(p.DiscountPrice)
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
	p.Images = NormalizeImages(p.Image, p.Images)
}
