package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	TotalSKUs       int             `json:"total_skus"`
	ItemsInStock    int             `json:"items_in_stock"`
	TotalOrders     int             `json:"total_orders"`
	PendingOrders   int             `json:"pending_orders"` // Pending + Partial
	PartialOrders   int             `json:"partial_orders"`
	CompletedOrders int             `json:"completed_orders"`
	CancelledOrders int             `json:"cancelled_orders"`
	TotalTrays      int             `json:"total_trays"`
	OccupiedTrays   int             `json:"occupied_trays"`
	InventoryValue  decimal.Decimal `json:"inventory_value"`
}

// SearchResultDTO una fila de GET /api/search.
type SearchResultDTO struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	TotalOnHand  int    `json:"total_on_hand"`
	ModuleID     string `json:"module_id,omitempty"`
	ModuleLabel  string `json:"module_label,omitempty"`
	TrayID       string `json:"tray_id,omitempty"`
	SlotIndex    int    `json:"slot_index,omitempty"`
	LocationCode string `json:"location_code,omitempty"`
	Quantity     int    `json:"quantity"`
}
