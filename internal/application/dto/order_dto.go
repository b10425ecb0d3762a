package dto

import "time"

// OrderLineRequest línea al crear una orden.
type OrderLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest entrada para crear una orden.
type CreateOrderRequest struct {
	Customer string             `json:"customer"`
	Lines    []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// FulfillLineRequest entrada para despachar una línea.
type FulfillLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// OrderLineResponse salida de una línea.
type OrderLineResponse struct {
	ProductID         string `json:"product_id"`
	RequestedQuantity int    `json:"requested_quantity"`
	FulfilledQuantity int    `json:"fulfilled_quantity"`
}

// OrderResponse salida de una orden. StatusNote aclara la política de cancelación.
type OrderResponse struct {
	ID         string              `json:"id"`
	Customer   string              `json:"customer"`
	Status     string              `json:"status"`
	StatusNote string              `json:"status_note,omitempty"`
	Lines      []OrderLineResponse `json:"lines"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// FulfillLineResponse salida de un despacho.
type FulfillLineResponse struct {
	Order       OrderResponse        `json:"order"`
	Allocations []AllocationResponse `json:"allocations"`
}
