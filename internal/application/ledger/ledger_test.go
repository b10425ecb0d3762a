package ledger_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/warehouse-api/internal/application/ledger"
	"github.com/jhoicas/warehouse-api/internal/application/location"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/memory"
)

// clock reloj manual que avanza un segundo por lectura.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type recorder struct {
	mu  sync.Mutex
	ops []string
}

func (r *recorder) ObserveStockOperation(op, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op+":"+result)
}

type env struct {
	ctx    context.Context
	store  *memory.Store
	ledger *ledger.Ledger
	rec    *recorder
	trays  []*entity.Tray // IL1: capacidades 10, 5, 8
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	rec := &recorder{}
	c := &clock{t: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
	_, trays, err := location.NewRegistry(store).CreateModule(ctx, "IL1", 0, 0, []int{10, 5, 8})
	require.NoError(t, err)
	return &env{
		ctx:    ctx,
		store:  store,
		ledger: ledger.New(store, ledger.WithClock(c.now), ledger.WithRecorder(rec)),
		rec:    rec,
		trays:  trays,
	}
}

func (e *env) product(t *testing.T, sku string) string {
	t.Helper()
	id := uuid.New().String()
	err := e.store.Run(e.ctx, func(tx repository.Repos) error {
		return tx.Products.Create(e.ctx, &entity.Product{ID: id, SKU: sku, Name: sku})
	})
	require.NoError(t, err)
	return id
}

func (e *env) quantity(t *testing.T, productID string) int {
	t.Helper()
	var q int
	require.NoError(t, e.store.View(e.ctx, func(tx repository.Repos) error {
		p, err := tx.Products.GetByID(e.ctx, productID)
		if err != nil {
			return err
		}
		q = p.Quantity
		return nil
	}))
	return q
}

func (e *env) assignment(t *testing.T, trayID string) *entity.StockAssignment {
	t.Helper()
	var a *entity.StockAssignment
	require.NoError(t, e.store.View(e.ctx, func(tx repository.Repos) error {
		var err error
		a, err = tx.Assignments.GetByTray(e.ctx, trayID)
		return err
	}))
	return a
}

// Producto en bandeja ocupada por otro producto: falla sin sobrescribir.
func TestAssign_OccupiedTrayRejectsOtherProduct(t *testing.T) {
	e := newEnv(t)
	p1, p2 := e.product(t, "P1"), e.product(t, "P2")
	tray := e.trays[0].ID

	_, err := e.ledger.Assign(e.ctx, p1, tray, 4)
	require.NoError(t, err)

	_, err = e.ledger.Assign(e.ctx, p2, tray, 3)
	assert.ErrorIs(t, err, domain.ErrTrayOccupiedByOther)
	assert.ErrorIs(t, err, domain.ErrConflict)

	a := e.assignment(t, tray)
	require.NotNil(t, a)
	assert.Equal(t, p1, a.ProductID)
	assert.Equal(t, 4, a.Quantity)
	assert.Equal(t, 4, e.quantity(t, p1))
	assert.Equal(t, 0, e.quantity(t, p2))
	assert.Equal(t, []string{"assign:ok", "assign:conflict"}, e.rec.ops)
}

func TestAssign_Validation(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "P1")

	_, err := e.ledger.Assign(e.ctx, p, e.trays[1].ID, 6)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	_, err = e.ledger.Assign(e.ctx, p, e.trays[1].ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.ledger.Assign(e.ctx, p, "no-existe", 1)
	assert.ErrorIs(t, err, domain.ErrTrayNotFound)

	_, err = e.ledger.Assign(e.ctx, "no-existe", e.trays[0].ID, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.Nil(t, e.assignment(t, e.trays[1].ID))
}

// Reasignar el mismo producto actualiza en el lugar y conserva AssignedAt.
func TestAssign_SameProductUpdatesInPlace(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "P1")
	tray := e.trays[0].ID

	first, err := e.ledger.Assign(e.ctx, p, tray, 4)
	require.NoError(t, err)
	again, err := e.ledger.Assign(e.ctx, p, tray, 4)
	require.NoError(t, err)
	assert.Equal(t, first.AssignedAt, again.AssignedAt)
	assert.Equal(t, 4, e.quantity(t, p))

	_, err = e.ledger.Assign(e.ctx, p, tray, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, e.assignment(t, tray).Quantity)
	assert.Equal(t, 9, e.quantity(t, p))
}

func TestAssignAt_ResolvesModuleSlot(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "P1")

	a, err := e.ledger.AssignAt(e.ctx, p, e.trays[0].ModuleID, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, e.trays[2].ID, a.TrayID)

	_, err = e.ledger.AssignAt(e.ctx, p, e.trays[0].ModuleID, 9, 2)
	assert.ErrorIs(t, err, domain.ErrTrayNotFound)
}

func TestMove(t *testing.T) {
	e := newEnv(t)
	p1, p2 := e.product(t, "P1"), e.product(t, "P2")
	t0, t1, t2 := e.trays[0].ID, e.trays[1].ID, e.trays[2].ID

	_, err := e.ledger.Assign(e.ctx, p1, t0, 4)
	require.NoError(t, err)
	_, err = e.ledger.Assign(e.ctx, p2, t1, 2)
	require.NoError(t, err)

	t.Run("destino ocupado por otro producto no cambia nada", func(t *testing.T) {
		_, err := e.ledger.Move(e.ctx, p1, t0, t1)
		assert.ErrorIs(t, err, domain.ErrDestinationOccupied)
		assert.Equal(t, p1, e.assignment(t, t0).ProductID)
		assert.Equal(t, p2, e.assignment(t, t1).ProductID)
	})

	t.Run("origen sin el producto", func(t *testing.T) {
		_, err := e.ledger.Move(e.ctx, p2, t0, t2)
		assert.ErrorIs(t, err, domain.ErrSourceMismatch)
	})

	t.Run("misma bandeja", func(t *testing.T) {
		_, err := e.ledger.Move(e.ctx, p1, t0, t0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("a bandeja vacía", func(t *testing.T) {
		a, err := e.ledger.Move(e.ctx, p1, t0, t2)
		require.NoError(t, err)
		assert.Equal(t, 4, a.Quantity)
		assert.Nil(t, e.assignment(t, t0))
		assert.Equal(t, p1, e.assignment(t, t2).ProductID)
		assert.Equal(t, 4, e.quantity(t, p1), "mover no cambia el total")
	})

	t.Run("fusión respeta capacidad", func(t *testing.T) {
		_, err := e.ledger.Assign(e.ctx, p1, t0, 5)
		require.NoError(t, err)
		_, err = e.ledger.Move(e.ctx, p1, t0, t2) // 5 + 4 > 8
		assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

		merged, err := e.ledger.Move(e.ctx, p1, t2, t0) // 4 + 5 <= 10
		require.NoError(t, err)
		assert.Equal(t, 9, merged.Quantity)
		assert.Nil(t, e.assignment(t, t2))
		assert.Equal(t, 9, e.quantity(t, p1))
	})
}

func TestRemove(t *testing.T) {
	e := newEnv(t)
	p1, p2 := e.product(t, "P1"), e.product(t, "P2")
	tray := e.trays[0].ID
	_, err := e.ledger.Assign(e.ctx, p1, tray, 4)
	require.NoError(t, err)

	assert.ErrorIs(t, e.ledger.Remove(e.ctx, p2, tray), domain.ErrSourceMismatch)

	require.NoError(t, e.ledger.Remove(e.ctx, p1, tray))
	assert.Nil(t, e.assignment(t, tray))
	assert.Equal(t, 0, e.quantity(t, p1))

	// la bandeja liberada acepta otro producto
	_, err = e.ledger.Assign(e.ctx, p2, tray, 1)
	assert.NoError(t, err)
}

// Reserve consume primero la asignación más antigua y libera las bandejas vaciadas.
func TestReserve_OldestFirst(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "P1")
	t0, t1, t2 := e.trays[0].ID, e.trays[1].ID, e.trays[2].ID

	// orden de asignación: t2, t0, t1
	for _, step := range []struct {
		tray string
		qty  int
	}{{t2, 3}, {t0, 4}, {t1, 5}} {
		_, err := e.ledger.Assign(e.ctx, p, step.tray, step.qty)
		require.NoError(t, err)
	}

	allocs, err := e.ledger.Reserve(e.ctx, p, 5)
	require.NoError(t, err)
	assert.Equal(t, []entity.Allocation{{TrayID: t2, Quantity: 3}, {TrayID: t0, Quantity: 2}}, allocs)
	assert.Nil(t, e.assignment(t, t2), "bandeja vaciada se libera")
	assert.Equal(t, 2, e.assignment(t, t0).Quantity)
	assert.Equal(t, 7, e.quantity(t, p))
}

func TestReserve_InsufficientLeavesStateUntouched(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "P1")
	_, err := e.ledger.Assign(e.ctx, p, e.trays[0].ID, 4)
	require.NoError(t, err)

	_, err = e.ledger.Reserve(e.ctx, p, 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 4, e.quantity(t, p))
	assert.Equal(t, 4, e.assignment(t, e.trays[0].ID).Quantity)
}

// Reservas concurrentes nunca dejan el total negativo ni sobre-asignan.
func TestReserve_ConcurrentNeverOversells(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "P1")
	_, err := e.ledger.Assign(e.ctx, p, e.trays[0].ID, 4)
	require.NoError(t, err)
	_, err = e.ledger.Assign(e.ctx, p, e.trays[1].ID, 3)
	require.NoError(t, err)

	var (
		mu        sync.Mutex
		succeeded int
	)
	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			_, err := e.ledger.Reserve(e.ctx, p, 1)
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			succeeded++
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 7, succeeded)
	assert.Equal(t, 0, e.quantity(t, p))
	assert.Nil(t, e.assignment(t, e.trays[0].ID))
	assert.Nil(t, e.assignment(t, e.trays[1].ID))
}

// El total del producto siempre coincide con la suma de sus asignaciones.
func TestLedger_QuantityMatchesAssignments(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "P1")
	t0, t1, t2 := e.trays[0].ID, e.trays[1].ID, e.trays[2].ID

	_, _ = e.ledger.Assign(e.ctx, p, t0, 6)
	_, _ = e.ledger.Assign(e.ctx, p, t1, 5)
	_, _ = e.ledger.Move(e.ctx, p, t1, t2)
	_, _ = e.ledger.Reserve(e.ctx, p, 7)
	_, _ = e.ledger.Assign(e.ctx, p, t1, 20) // rechazado por capacidad

	var sum int
	require.NoError(t, e.store.View(e.ctx, func(tx repository.Repos) error {
		list, err := tx.Assignments.ListByProduct(e.ctx, p)
		for _, a := range list {
			assert.GreaterOrEqual(t, a.Quantity, 1)
			sum += a.Quantity
		}
		return err
	}))
	assert.Equal(t, sum, e.quantity(t, p))
	assert.Equal(t, 4, sum)
}

// Secuencia aleatoria con semilla fija: tras cada paso toda asignación respeta 1..capacidad
// y la cantidad de cada producto es la suma de sus asignaciones.
func TestLedger_RandomSequenceKeepsInvariants(t *testing.T) {
	e := newEnv(t)
	products := []string{e.product(t, "P1"), e.product(t, "P2"), e.product(t, "P3")}
	capacity := make(map[string]int, len(e.trays))
	for _, tr := range e.trays {
		capacity[tr.ID] = tr.Capacity
	}
	rng := rand.New(rand.NewSource(7))
	tray := func() string { return e.trays[rng.Intn(len(e.trays))].ID }

	for step := 0; step < 3000; step++ {
		p := products[rng.Intn(len(products))]
		var err error
		switch rng.Intn(4) {
		case 0:
			_, err = e.ledger.Assign(e.ctx, p, tray(), 1+rng.Intn(6))
		case 1:
			_, err = e.ledger.Move(e.ctx, p, tray(), tray())
		case 2:
			err = e.ledger.Remove(e.ctx, p, tray())
		default:
			_, err = e.ledger.Reserve(e.ctx, p, 1+rng.Intn(6))
		}
		if err != nil {
			require.True(t,
				errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) ||
					errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInsufficientStock),
				"paso %d: error inesperado %v", step, err)
		}

		require.NoError(t, e.store.View(e.ctx, func(tx repository.Repos) error {
			all, err := tx.Assignments.List(e.ctx)
			if err != nil {
				return err
			}
			sums := make(map[string]int)
			for _, a := range all {
				require.GreaterOrEqual(t, a.Quantity, 1, "paso %d", step)
				require.LessOrEqual(t, a.Quantity, capacity[a.TrayID], "paso %d", step)
				sums[a.ProductID] += a.Quantity
			}
			for _, id := range products {
				prod, err := tx.Products.GetByID(e.ctx, id)
				if err != nil {
					return err
				}
				require.Equal(t, sums[id], prod.Quantity, "paso %d", step)
			}
			return nil
		}))
	}
}
