package http

import (
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/location"
	"github.com/jhoicas/warehouse-api/internal/application/query"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

func toModuleResponse(m *entity.Module, trays []*entity.Tray) dto.ModuleResponse {
	out := dto.ModuleResponse{ID: m.ID, Label: m.Label, Row: m.Row, Column: m.Column, CreatedAt: m.CreatedAt}
	for _, t := range trays {
		out.Trays = append(out.Trays, toTrayResponse(t))
	}
	return out
}

func toTrayResponse(t *entity.Tray) dto.TrayResponse {
	return dto.TrayResponse{ID: t.ID, ModuleID: t.ModuleID, SlotIndex: t.SlotIndex, Capacity: t.Capacity}
}

func toLocationResponse(l entity.Location) dto.LocationResponse {
	return dto.LocationResponse{
		Code:        l.Code(),
		ModuleID:    l.Module.ID,
		ModuleLabel: l.Module.Label,
		Row:         l.Module.Row,
		Column:      l.Module.Column,
		TrayID:      l.Tray.ID,
		SlotIndex:   l.Tray.SlotIndex,
		Capacity:    l.Tray.Capacity,
	}
}

func toSchematicResponse(s location.LocationStatus) dto.LocationResponse {
	out := toLocationResponse(s.Location)
	occupied := s.Occupant != nil
	out.Occupied = &occupied
	if s.Occupant != nil {
		productID, qty := s.Occupant.ProductID, s.Occupant.Quantity
		out.ProductID = &productID
		out.Quantity = &qty
	}
	return out
}

func toAssignmentResponse(a *entity.StockAssignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ProductID:  a.ProductID,
		TrayID:     a.TrayID,
		Quantity:   a.Quantity,
		AssignedAt: a.AssignedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func toAllocations(allocs []entity.Allocation) []dto.AllocationResponse {
	out := make([]dto.AllocationResponse, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, dto.AllocationResponse{TrayID: a.TrayID, Quantity: a.Quantity})
	}
	return out
}

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	out := dto.OrderResponse{
		ID:         o.ID,
		Customer:   o.Customer,
		Status:     string(o.Status),
		StatusNote: o.StatusNote(),
		Lines:      make([]dto.OrderLineResponse, 0, len(o.Lines)),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, dto.OrderLineResponse{
			ProductID:         l.ProductID,
			RequestedQuantity: l.RequestedQuantity,
			FulfilledQuantity: l.FulfilledQuantity,
		})
	}
	return out
}

func toDashboardStats(s *query.DashboardStats) dto.DashboardStatsDTO {
	return dto.DashboardStatsDTO{
		TotalSKUs:       s.TotalSKUs,
		ItemsInStock:    s.ItemsInStock,
		TotalOrders:     s.TotalOrders,
		PendingOrders:   s.PendingOrders,
		PartialOrders:   s.PartialOrders,
		CompletedOrders: s.CompletedOrders,
		CancelledOrders: s.CancelledOrders,
		TotalTrays:      s.TotalTrays,
		OccupiedTrays:   s.OccupiedTrays,
		InventoryValue:  s.InventoryValue,
	}
}

func toSearchResult(r query.SearchResult) dto.SearchResultDTO {
	out := dto.SearchResultDTO{
		ProductID:    r.Product.ID,
		SKU:          r.Product.SKU,
		Name:         r.Product.Name,
		TotalOnHand:  r.Product.Quantity,
		LocationCode: r.LocationCode,
		Quantity:     r.Quantity,
	}
	if r.Module != nil {
		out.ModuleID = r.Module.ID
		out.ModuleLabel = r.Module.Label
	}
	if r.Tray != nil {
		out.TrayID = r.Tray.ID
		out.SlotIndex = r.Tray.SlotIndex
	}
	return out
}
