package fulfillment

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// PickStop bandeja de la que conviene tomar el producto y cuánto contiene.
type PickStop struct {
	TrayID       string
	LocationCode string
	Available    int
}

// PickLine línea pendiente con sus bandejas en el orden en que Reserve las consumiría.
type PickLine struct {
	Product   entity.Product
	Requested int
	Fulfilled int
	Remaining int
	Stops     []PickStop
}

// PickList hoja de picking de una orden.
type PickList struct {
	Order *entity.Order
	Lines []PickLine
}

// PickList arma la hoja de picking leyendo orden, productos y ubicaciones en un mismo snapshot.
func (e *Engine) PickList(ctx context.Context, orderID string) (*PickList, error) {
	var out *PickList
	err := e.tx.View(ctx, func(tx repository.Repos) error {
		order, err := tx.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		locs, err := tx.Locations.ListLocations(ctx)
		if err != nil {
			return err
		}
		codes := make(map[string]string, len(locs))
		for _, l := range locs {
			codes[l.Tray.ID] = l.Code()
		}
		pl := &PickList{Order: order}
		for _, line := range order.Lines {
			p, err := tx.Products.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				// producto dado de baja después de crear la orden
				p = &entity.Product{ID: line.ProductID}
			}
			assignments, err := tx.Assignments.ListByProduct(ctx, line.ProductID)
			if err != nil {
				return err
			}
			stops := make([]PickStop, 0, len(assignments))
			for _, a := range assignments {
				stops = append(stops, PickStop{TrayID: a.TrayID, LocationCode: codes[a.TrayID], Available: a.Quantity})
			}
			pl.Lines = append(pl.Lines, PickLine{
				Product:   *p,
				Requested: line.RequestedQuantity,
				Fulfilled: line.FulfilledQuantity,
				Remaining: line.Remaining(),
				Stops:     stops,
			})
		}
		out = pl
		return nil
	})
	return out, err
}
