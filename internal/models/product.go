package models

import "time"

type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountFlat       DiscountType = "flat"
	DiscountPercentage DiscountType = "percentage"
)

type Product struct {
	ID                string       `json:"_id"`
	Name              string       `json:"name"`
	Price             float64      `json:"price"`
	Category          string       `json:"category"`
	Stock             int          `json:"stock"`
	DiscountType      DiscountType `json:"discountType"`
	DiscountValue     float64      `json:"discountValue"`
	Active            bool         `json:"active"`
	LowStockThreshold int          `json:"lowStockThreshold"`
	Image             string       `json:"image,omitempty"`
	CreatedAt         time.Time    `json:"createdAt,omitempty"`
	UpdatedAt         time.Time    `json:"updatedAt,omitempty"`
}

// LowOnStock reports whether the product has fallen to or below its
// configured low-stock threshold.
func (p *Product) LowOnStock() bool {
	return p.LowStockThreshold > 0 && p.Stock <= p.LowStockThreshold
}

type Category struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type CreateProductRequest struct {
	Name              string       `json:"name" validate:"required,min=2,max=200"`
	Price             float64      `json:"price" validate:"gte=0"`
	Category          string       `json:"category" validate:"required"`
	Stock             int          `json:"stock" validate:"gte=0"`
	DiscountType      DiscountType `json:"discountType" validate:"omitempty,oneof=none flat percentage"`
	DiscountValue     float64      `json:"discountValue" validate:"gte=0"`
	Active            bool         `json:"active"`
	LowStockThreshold int          `json:"lowStockThreshold" validate:"gte=0"`
	Image             string       `json:"image,omitempty"`
}

type UpdateProductRequest struct {
	Name              *string       `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Price             *float64      `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category          *string       `json:"category,omitempty"`
	Stock             *int          `json:"stock,omitempty" validate:"omitempty,gte=0"`
	DiscountType      *DiscountType `json:"discountType,omitempty" validate:"omitempty,oneof=none flat percentage"`
	DiscountValue     *float64      `json:"discountValue,omitempty" validate:"omitempty,gte=0"`
	Active            *bool         `json:"active,omitempty"`
	LowStockThreshold *int          `json:"lowStockThreshold,omitempty" validate:"omitempty,gte=0"`
	Image             *string       `json:"image,omitempty"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}
