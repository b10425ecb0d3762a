package ledger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/jhoicas/warehouse-api/internal/application/location"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// Ledger es el dueño de las asignaciones producto-bandeja y el único que escribe
// Product.Quantity. Cada operación corre en una transacción (TxRunner.Run) y bloquea
// siempre en el mismo orden: producto y luego bandejas por ID ascendente.
type Ledger struct {
	tx  repository.TxRunner
	now func() time.Time
	rec Recorder
}

// Option configura el ledger.
type Option func(*Ledger)

// WithClock reemplaza el reloj (AssignedAt define el orden de consumo en reservas).
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithRecorder registra el resultado de cada operación.
func WithRecorder(rec Recorder) Option {
	return func(l *Ledger) {
		if rec != nil {
			l.rec = rec
		}
	}
}

// New construye el ledger.
func New(tx repository.TxRunner, opts ...Option) *Ledger {
	l := &Ledger{tx: tx, now: time.Now, rec: nopRecorder{}}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Assign ubica quantity unidades del producto en la bandeja.
// Si la bandeja ya tiene el mismo producto actualiza la cantidad en el lugar;
// si tiene otro producto falla con ErrTrayOccupiedByOther sin sobrescribir.
func (l *Ledger) Assign(ctx context.Context, productID, trayID string, quantity int) (*entity.StockAssignment, error) {
	var out *entity.StockAssignment
	err := l.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		out, err = l.AssignInTx(ctx, tx, productID, trayID, quantity)
		return err
	})
	l.observe("assign", err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AssignAt resuelve (módulo, slot) y asigna en la misma transacción.
func (l *Ledger) AssignAt(ctx context.Context, productID, moduleID string, slot, quantity int) (*entity.StockAssignment, error) {
	var out *entity.StockAssignment
	err := l.tx.Run(ctx, func(tx repository.Repos) error {
		tray, err := location.ResolveInTx(ctx, tx, moduleID, slot)
		if err != nil {
			return err
		}
		out, err = l.AssignInTx(ctx, tx, productID, tray.ID, quantity)
		return err
	})
	l.observe("assign", err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AssignInTx ejecuta Assign dentro de la transacción del caller.
func (l *Ledger) AssignInTx(ctx context.Context, tx repository.Repos, productID, trayID string, quantity int) (*entity.StockAssignment, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidInput
	}
	product, err := lockProduct(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	tray, err := tx.Locations.GetTrayForUpdate(ctx, trayID)
	if err != nil {
		return nil, err
	}
	if tray == nil {
		return nil, domain.ErrTrayNotFound
	}
	if quantity > tray.Capacity {
		return nil, domain.ErrCapacityExceeded
	}
	cur, err := tx.Assignments.GetByTray(ctx, trayID)
	if err != nil {
		return nil, err
	}
	now := l.now()
	a := &entity.StockAssignment{ProductID: productID, TrayID: trayID, AssignedAt: now}
	previous := 0
	if cur != nil {
		if cur.ProductID != productID {
			return nil, domain.ErrTrayOccupiedByOther
		}
		previous = cur.Quantity
		a.AssignedAt = cur.AssignedAt
	}
	a.Quantity = quantity
	a.UpdatedAt = now
	if err := tx.Assignments.Upsert(ctx, a); err != nil {
		return nil, err
	}
	if err := tx.Products.UpdateQuantity(ctx, productID, product.Quantity-previous+quantity); err != nil {
		return nil, err
	}
	return a, nil
}

// Move traslada toda la cantidad del producto de una bandeja a otra. Nunca deja el
// producto sin ubicar: o se borra el origen y se crea el destino, o no pasa nada.
// Si el destino ya tiene el mismo producto las cantidades se suman (respetando capacidad).
func (l *Ledger) Move(ctx context.Context, productID, fromTrayID, toTrayID string) (*entity.StockAssignment, error) {
	var out *entity.StockAssignment
	err := l.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		out, err = l.moveInTx(ctx, tx, productID, fromTrayID, toTrayID)
		return err
	})
	l.observe("move", err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Ledger) moveInTx(ctx context.Context, tx repository.Repos, productID, fromTrayID, toTrayID string) (*entity.StockAssignment, error) {
	if fromTrayID == "" || toTrayID == "" || fromTrayID == toTrayID {
		return nil, domain.ErrInvalidInput
	}
	if _, err := lockProduct(ctx, tx, productID); err != nil {
		return nil, err
	}
	trays, err := lockTrays(ctx, tx, fromTrayID, toTrayID)
	if err != nil {
		return nil, err
	}
	dstTray := trays[toTrayID]

	src, err := tx.Assignments.GetByTray(ctx, fromTrayID)
	if err != nil {
		return nil, err
	}
	if src == nil || src.ProductID != productID {
		return nil, domain.ErrSourceMismatch
	}
	dst, err := tx.Assignments.GetByTray(ctx, toTrayID)
	if err != nil {
		return nil, err
	}
	moved := &entity.StockAssignment{
		ProductID:  productID,
		TrayID:     toTrayID,
		Quantity:   src.Quantity,
		AssignedAt: src.AssignedAt,
		UpdatedAt:  l.now(),
	}
	if dst != nil {
		if dst.ProductID != productID {
			return nil, domain.ErrDestinationOccupied
		}
		moved.Quantity += dst.Quantity
		if dst.AssignedAt.Before(moved.AssignedAt) {
			moved.AssignedAt = dst.AssignedAt
		}
	}
	if moved.Quantity > dstTray.Capacity {
		return nil, domain.ErrCapacityExceeded
	}
	if err := tx.Assignments.Delete(ctx, fromTrayID); err != nil {
		return nil, err
	}
	if err := tx.Assignments.Upsert(ctx, moved); err != nil {
		return nil, err
	}
	return moved, nil
}

// Remove elimina la asignación y libera la bandeja; descuenta la cantidad del producto.
func (l *Ledger) Remove(ctx context.Context, productID, trayID string) error {
	err := l.tx.Run(ctx, func(tx repository.Repos) error {
		product, err := lockProduct(ctx, tx, productID)
		if err != nil {
			return err
		}
		if _, err := lockTrays(ctx, tx, trayID); err != nil {
			return err
		}
		a, err := tx.Assignments.GetByTray(ctx, trayID)
		if err != nil {
			return err
		}
		if a == nil || a.ProductID != productID {
			return domain.ErrSourceMismatch
		}
		if err := tx.Assignments.Delete(ctx, trayID); err != nil {
			return err
		}
		return tx.Products.UpdateQuantity(ctx, productID, product.Quantity-a.Quantity)
	})
	l.observe("remove", err)
	return err
}

// Reserve descuenta quantity del producto repartiendo entre sus bandejas, la asignación
// más antigua primero (AssignedAt, luego TrayID). Las bandejas vaciadas se liberan.
func (l *Ledger) Reserve(ctx context.Context, productID string, quantity int) ([]entity.Allocation, error) {
	var out []entity.Allocation
	err := l.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		out, err = l.ReserveInTx(ctx, tx, productID, quantity)
		return err
	})
	l.observe("reserve", err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReserveInTx ejecuta Reserve dentro de la transacción del caller (despacho de órdenes).
func (l *Ledger) ReserveInTx(ctx context.Context, tx repository.Repos, productID string, quantity int) ([]entity.Allocation, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidInput
	}
	product, err := lockProduct(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	if product.Quantity < quantity {
		return nil, domain.ErrInsufficientStock
	}
	assignments, err := tx.Assignments.ListByProductForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	now := l.now()
	remaining := quantity
	var allocations []entity.Allocation
	for _, a := range assignments {
		if remaining == 0 {
			break
		}
		take := min(remaining, a.Quantity)
		if take == a.Quantity {
			err = tx.Assignments.Delete(ctx, a.TrayID)
		} else {
			a.Quantity -= take
			a.UpdatedAt = now
			err = tx.Assignments.Upsert(ctx, a)
		}
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, entity.Allocation{TrayID: a.TrayID, Quantity: take})
		remaining -= take
	}
	if remaining > 0 {
		// Product.Quantity no coincide con sus asignaciones; se revierte todo.
		return nil, domain.ErrInsufficientStock
	}
	if err := tx.Products.UpdateQuantity(ctx, productID, product.Quantity-quantity); err != nil {
		return nil, err
	}
	return allocations, nil
}

// ReleaseAllInTx elimina todas las asignaciones del producto (baja del catálogo).
func (l *Ledger) ReleaseAllInTx(ctx context.Context, tx repository.Repos, productID string) error {
	if _, err := lockProduct(ctx, tx, productID); err != nil {
		return err
	}
	assignments, err := tx.Assignments.ListByProductForUpdate(ctx, productID)
	if err != nil {
		return err
	}
	for _, a := range assignments {
		if err := tx.Assignments.Delete(ctx, a.TrayID); err != nil {
			return err
		}
	}
	return tx.Products.UpdateQuantity(ctx, productID, 0)
}

func (l *Ledger) observe(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		result = "not_found"
	case errors.Is(err, domain.ErrConflict):
		result = "conflict"
	case errors.Is(err, domain.ErrInsufficientStock):
		result = "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidInput):
		result = "invalid"
	default:
		result = "error"
	}
	l.rec.ObserveStockOperation(op, result)
}

func lockProduct(ctx context.Context, tx repository.Repos, productID string) (*entity.Product, error) {
	p, err := tx.Products.GetByIDForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// lockTrays bloquea las bandejas en orden de ID para no producir deadlocks entre movimientos cruzados.
func lockTrays(ctx context.Context, tx repository.Repos, ids ...string) (map[string]*entity.Tray, error) {
	sorted := append([]string(nil), ids...)
	slices.Sort(sorted)
	out := make(map[string]*entity.Tray, len(ids))
	for _, id := range sorted {
		t, err := tx.Locations.GetTrayForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, domain.ErrTrayNotFound
		}
		out[id] = t
	}
	return out, nil
}
