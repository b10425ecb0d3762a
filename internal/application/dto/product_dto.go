package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlacementRequest ubicación inicial opcional de un producto nuevo.
// Se indica TrayID, o bien ModuleID + Slot (selección en dos pasos).
type PlacementRequest struct {
	TrayID   string `json:"tray_id"`
	ModuleID string `json:"module_id"`
	Slot     int    `json:"slot"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU         string            `json:"sku" validate:"required,min=1,max=100"`
	Name        string            `json:"name" validate:"required,min=1,max=200"`
	Description string            `json:"description"`
	UnitCost    decimal.Decimal   `json:"unit_cost"`
	Placement   *PlacementRequest `json:"placement"`
}

// UpdateProductRequest entrada para actualizar un producto (sin SKU ni cantidad:
// la cantidad solo cambia vía el ledger de stock).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
