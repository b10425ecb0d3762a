package fulfillment

import (
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// StockReserver parte del ledger que usa el motor: reservar dentro de la misma transacción.
// Lo implementa *ledger.Ledger; el motor nunca escribe asignaciones directamente.
type StockReserver interface {
	ReserveInTx(ctx context.Context, tx repository.Repos, productID string, quantity int) ([]entity.Allocation, error)
}

// Observer recibe el resultado de cada despacho (métricas).
type Observer interface {
	ObserveFulfillment(result string)
}

// LineInput línea solicitada al crear una orden.
type LineInput struct {
	ProductID string
	Quantity  int
}

// FulfillResult orden actualizada y bandejas de las que salió el stock.
type FulfillResult struct {
	Order       *entity.Order
	Allocations []entity.Allocation
}

// Engine es el dueño del ciclo de vida de las órdenes: Pending → Partial → Completed,
// con Cancelled alcanzable desde Pending o Partial. El estado siempre se deriva de las líneas.
type Engine struct {
	tx       repository.TxRunner
	reserver StockReserver
	obs      Observer
	now      func() time.Time
}

// NewEngine construye el motor de despacho.
func NewEngine(tx repository.TxRunner, reserver StockReserver, obs Observer) *Engine {
	return &Engine{tx: tx, reserver: reserver, obs: obs, now: time.Now}
}

// CreateOrder crea la orden en Pending con todas las líneas en 0 despachado.
func (e *Engine) CreateOrder(ctx context.Context, customer string, lines []LineInput) (*entity.Order, error) {
	customer = strings.TrimSpace(customer)
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(lines))
	orderLines := make([]entity.OrderLine, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity < 1 || seen[l.ProductID] {
			return nil, domain.ErrInvalidInput
		}
		seen[l.ProductID] = true
		orderLines = append(orderLines, entity.OrderLine{ProductID: l.ProductID, RequestedQuantity: l.Quantity})
	}
	now := e.now()
	order := &entity.Order{
		ID:        uuid.New().String(),
		Customer:  customer,
		Status:    entity.OrderStatusPending,
		Lines:     orderLines,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// Bloquea los productos en orden de ID hasta el commit para no cruzarse con una baja.
	ids := slices.Sorted(maps.Keys(seen))
	err := e.tx.Run(ctx, func(tx repository.Repos) error {
		for _, id := range ids {
			p, err := tx.Products.GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrProductNotFound
			}
		}
		return tx.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// FulfillLine reserva stock en el ledger y suma lo despachado a la línea, en una sola
// transacción. Superar lo solicitado es ErrOverFulfillment; si la reserva falla la orden
// y el ledger quedan intactos.
func (e *Engine) FulfillLine(ctx context.Context, orderID, productID string, quantity int) (*FulfillResult, error) {
	var res *FulfillResult
	err := e.tx.Run(ctx, func(tx repository.Repos) error {
		if quantity < 1 {
			return domain.ErrInvalidInput
		}
		order, err := tx.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if order.Status == entity.OrderStatusCancelled {
			return domain.ErrOrderCancelled
		}
		i := order.LineIndex(productID)
		if i < 0 {
			return domain.ErrLineNotFound
		}
		if quantity > order.Lines[i].Remaining() {
			return domain.ErrOverFulfillment
		}
		allocations, err := e.reserver.ReserveInTx(ctx, tx, productID, quantity)
		if err != nil {
			return err
		}
		order.Lines[i].FulfilledQuantity += quantity
		order.RecomputeStatus()
		order.UpdatedAt = e.now()
		if err := tx.Orders.Update(ctx, order); err != nil {
			return err
		}
		res = &FulfillResult{Order: order, Allocations: allocations}
		return nil
	})
	e.observe(err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Cancel marca la orden como Cancelled. Lo ya despachado no se reintegra al inventario:
// la orden lo informa en StatusNote.
func (e *Engine) Cancel(ctx context.Context, orderID string) (*entity.Order, error) {
	var out *entity.Order
	err := e.tx.Run(ctx, func(tx repository.Repos) error {
		order, err := tx.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		switch order.Status {
		case entity.OrderStatusCompleted:
			return domain.ErrAlreadyCompleted
		case entity.OrderStatusCancelled:
			return domain.ErrAlreadyCancelled
		}
		order.Status = entity.OrderStatusCancelled
		order.UpdatedAt = e.now()
		if err := tx.Orders.Update(ctx, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get obtiene una orden.
func (e *Engine) Get(ctx context.Context, orderID string) (*entity.Order, error) {
	var out *entity.Order
	err := e.tx.View(ctx, func(tx repository.Repos) error {
		o, err := tx.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}
		out = o
		return nil
	})
	return out, err
}

// List órdenes más recientes primero.
func (e *Engine) List(ctx context.Context, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	err := e.tx.View(ctx, func(tx repository.Repos) error {
		var err error
		out, err = tx.Orders.List(ctx, limit, offset)
		return err
	})
	return out, err
}

// Delete elimina la orden. No toca el inventario.
func (e *Engine) Delete(ctx context.Context, orderID string) error {
	return e.tx.Run(ctx, func(tx repository.Repos) error {
		o, err := tx.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}
		return tx.Orders.Delete(ctx, orderID)
	})
}

func (e *Engine) observe(err error) {
	if e.obs == nil {
		return
	}
	e.obs.ObserveFulfillment(resultLabel(err))
}
