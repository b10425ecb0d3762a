package query

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// DashboardStats KPIs del tablero. PendingOrders cuenta las órdenes abiertas
// (Pending + Partial); las canceladas no cuentan como pendientes.
type DashboardStats struct {
	TotalSKUs       int
	ItemsInStock    int
	TotalOrders     int
	PendingOrders   int
	PartialOrders   int
	CompletedOrders int
	CancelledOrders int
	TotalTrays      int
	OccupiedTrays   int
	InventoryValue  decimal.Decimal
}

// SearchResult producto y una de sus ubicaciones; Module/Tray nil si no está ubicado.
type SearchResult struct {
	Product      entity.Product
	Module       *entity.Module
	Tray         *entity.Tray
	Quantity     int // cantidad en esa bandeja
	LocationCode string
}

// Projection vistas de solo lectura sobre el registro, el ledger y las órdenes.
// Nunca modifica estado.
type Projection struct {
	tx repository.TxRunner
}

// NewProjection construye la capa de consultas.
func NewProjection(tx repository.TxRunner) *Projection {
	return &Projection{tx: tx}
}

// DashboardStats agrega catálogo, órdenes y ocupación en un mismo snapshot.
func (p *Projection) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	err := p.tx.View(ctx, func(tx repository.Repos) error {
		sum, err := tx.Products.Summary(ctx)
		if err != nil {
			return err
		}
		counts, err := tx.Orders.CountByStatus(ctx)
		if err != nil {
			return err
		}
		trays, err := tx.Locations.CountTrays(ctx)
		if err != nil {
			return err
		}
		occupied, err := tx.Assignments.CountOccupied(ctx)
		if err != nil {
			return err
		}
		out = DashboardStats{
			TotalSKUs:       sum.TotalSKUs,
			ItemsInStock:    sum.ItemsInStock,
			PendingOrders:   counts[entity.OrderStatusPending] + counts[entity.OrderStatusPartial],
			PartialOrders:   counts[entity.OrderStatusPartial],
			CompletedOrders: counts[entity.OrderStatusCompleted],
			CancelledOrders: counts[entity.OrderStatusCancelled],
			TotalTrays:      trays,
			OccupiedTrays:   occupied,
			InventoryValue:  sum.InventoryValue,
		}
		for _, n := range counts {
			out.TotalOrders += n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Search busca por SKU exacto o subcadena del nombre y devuelve una fila por bandeja,
// en orden de SKU y luego de ubicación. Sin coincidencias devuelve un slice vacío.
func (p *Projection) Search(ctx context.Context, term string) ([]SearchResult, error) {
	out := []SearchResult{}
	term = strings.TrimSpace(term)
	if term == "" {
		return out, nil
	}
	err := p.tx.View(ctx, func(tx repository.Repos) error {
		products, err := tx.Products.Search(ctx, term)
		if err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		locs, err := tx.Locations.ListLocations(ctx)
		if err != nil {
			return err
		}
		rank := make(map[string]int, len(locs))
		byTray := make(map[string]entity.Location, len(locs))
		for i, l := range locs {
			rank[l.Tray.ID] = i
			byTray[l.Tray.ID] = l
		}
		for _, prod := range products {
			assignments, err := tx.Assignments.ListByProduct(ctx, prod.ID)
			if err != nil {
				return err
			}
			if len(assignments) == 0 {
				out = append(out, SearchResult{Product: *prod})
				continue
			}
			rows := make([]SearchResult, 0, len(assignments))
			for _, a := range assignments {
				l, ok := byTray[a.TrayID]
				if !ok {
					continue
				}
				m, t := l.Module, l.Tray
				rows = append(rows, SearchResult{
					Product:      *prod,
					Module:       &m,
					Tray:         &t,
					Quantity:     a.Quantity,
					LocationCode: l.Code(),
				})
			}
			sortByLocation(rows, rank)
			out = append(out, rows...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func sortByLocation(rows []SearchResult, rank map[string]int) {
	slices.SortFunc(rows, func(a, b SearchResult) int {
		return rank[a.Tray.ID] - rank[b.Tray.ID]
	})
}
