package dto

import "time"

// AssignStockRequest entrada para asignar stock a una bandeja.
// Se indica TrayID, o bien ModuleID + Slot.
type AssignStockRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	TrayID    string `json:"tray_id"`
	ModuleID  string `json:"module_id"`
	Slot      int    `json:"slot"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// MoveStockRequest entrada para mover un producto entre bandejas.
type MoveStockRequest struct {
	ProductID  string `json:"product_id" validate:"required"`
	FromTrayID string `json:"from_tray_id" validate:"required"`
	ToTrayID   string `json:"to_tray_id" validate:"required"`
}

// RemoveStockRequest entrada para retirar un producto de una bandeja.
type RemoveStockRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	TrayID    string `json:"tray_id" validate:"required"`
}

// AssignmentResponse salida de una asignación producto-bandeja.
type AssignmentResponse struct {
	ProductID  string    `json:"product_id"`
	TrayID     string    `json:"tray_id"`
	Quantity   int       `json:"quantity"`
	AssignedAt time.Time `json:"assigned_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AllocationResponse cantidad tomada de una bandeja al despachar.
type AllocationResponse struct {
	TrayID   string `json:"tray_id"`
	Quantity int    `json:"quantity"`
}
