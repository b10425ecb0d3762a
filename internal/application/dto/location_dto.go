package dto

import "time"

// CreateModuleRequest entrada para crear un módulo con sus bandejas.
// TrayCapacities define una bandeja por elemento (slot 1..n).
type CreateModuleRequest struct {
	Label          string `json:"label" validate:"required,max=50"`
	Row            int    `json:"row" validate:"min=0"`
	Column         int    `json:"column" validate:"min=0"`
	TrayCapacities []int  `json:"tray_capacities" validate:"required,min=1,dive,min=1"`
}

// ModuleResponse salida de un módulo.
type ModuleResponse struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	Row       int            `json:"row"`
	Column    int            `json:"column"`
	CreatedAt time.Time      `json:"created_at"`
	Trays     []TrayResponse `json:"trays,omitempty"`
}

// TrayResponse salida de una bandeja.
type TrayResponse struct {
	ID        string `json:"id"`
	ModuleID  string `json:"module_id"`
	SlotIndex int    `json:"slot_index"`
	Capacity  int    `json:"capacity"`
}

// LocationResponse una entrada del listado de ubicaciones / plano.
type LocationResponse struct {
	Code        string  `json:"code"`
	ModuleID    string  `json:"module_id"`
	ModuleLabel string  `json:"module_label"`
	Row         int     `json:"row"`
	Column      int     `json:"column"`
	TrayID      string  `json:"tray_id"`
	SlotIndex   int     `json:"slot_index"`
	Capacity    int     `json:"capacity"`
	Occupied    *bool   `json:"occupied,omitempty"`
	ProductID   *string `json:"product_id,omitempty"`
	Quantity    *int    `json:"quantity,omitempty"`
}

// OccupancyResponse salida de GET /api/trays/:id/occupied.
type OccupancyResponse struct {
	TrayID   string `json:"tray_id"`
	Occupied bool   `json:"occupied"`
}
