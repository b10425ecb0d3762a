//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/warehouse-api/internal/application/fulfillment"
	"github.com/jhoicas/warehouse-api/internal/application/ledger"
	"github.com/jhoicas/warehouse-api/internal/application/location"
	"github.com/jhoicas/warehouse-api/internal/application/query"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/postgres"
	"github.com/jhoicas/warehouse-api/pkg/config"
)

var pool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("warehouse"),
		tcpostgres.WithUsername("app"),
		tcpostgres.WithPassword("app"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "postgres container: %v\n", err)
		os.Exit(1)
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err == nil {
		pool, err = postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 8})
	}
	if err == nil {
		_, err = postgres.Migrate(ctx, pool)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		_ = container.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()
	pool.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

// reset vacía todas las tablas entre tests.
func reset(t *testing.T) (context.Context, *postgres.TxRunner) {
	t.Helper()
	ctx := context.Background()
	_, err := pool.Exec(ctx, `TRUNCATE order_lines, orders, stock_assignments, trays, modules, products, users CASCADE`)
	require.NoError(t, err)
	return ctx, postgres.NewTxRunner(pool)
}

type tick struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tick) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func createProduct(t *testing.T, ctx context.Context, tx repository.TxRunner, p *entity.Product) {
	t.Helper()
	require.NoError(t, tx.Run(ctx, func(r repository.Repos) error { return r.Products.Create(ctx, p) }))
}

func TestMigrate_Idempotent(t *testing.T) {
	applied, err := postgres.Migrate(context.Background(), pool)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestLocations_Constraints(t *testing.T) {
	ctx, tx := reset(t)
	reg := location.NewRegistry(tx)

	m, _, err := reg.CreateModule(ctx, "IL1", 0, 0, []int{10, 5})
	require.NoError(t, err)
	_, _, err = reg.CreateModule(ctx, "IL2", 0, 0, []int{10})
	assert.ErrorIs(t, err, domain.ErrPositionTaken)
	_, _, err = reg.CreateModule(ctx, "IL1", 1, 1, []int{10})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	tray, err := reg.Resolve(ctx, m.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, tray.Capacity)

	locs, err := reg.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "IL1-01", locs[0].Code())
}

func TestLedger_OnPostgres(t *testing.T) {
	ctx, tx := reset(t)
	_, trays, err := location.NewRegistry(tx).CreateModule(ctx, "IL1", 0, 0, []int{10, 10, 10})
	require.NoError(t, err)
	createProduct(t, ctx, tx, &entity.Product{ID: "p1", SKU: "P1", Name: "Tornillo"})
	createProduct(t, ctx, tx, &entity.Product{ID: "p2", SKU: "P2", Name: "Tuerca"})

	c := &tick{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := ledger.New(tx, ledger.WithClock(c.now))

	_, err = l.Assign(ctx, "p1", trays[2].ID, 3)
	require.NoError(t, err)
	_, err = l.Assign(ctx, "p1", trays[0].ID, 4)
	require.NoError(t, err)

	_, err = l.Assign(ctx, "p2", trays[0].ID, 1)
	assert.ErrorIs(t, err, domain.ErrTrayOccupiedByOther)
	_, err = l.Move(ctx, "p1", trays[0].ID, trays[2].ID)
	require.NoError(t, err, "fusión dentro de la capacidad")

	_, err = l.Assign(ctx, "p1", trays[1].ID, 2)
	require.NoError(t, err)
	allocs, err := l.Reserve(ctx, "p1", 8)
	require.NoError(t, err)
	assert.Equal(t, []entity.Allocation{{TrayID: trays[2].ID, Quantity: 7}, {TrayID: trays[1].ID, Quantity: 1}}, allocs)

	_, err = l.Reserve(ctx, "p1", 2)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	require.NoError(t, tx.View(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, 1, p.Quantity)
		n, err := r.Assignments.CountOccupied(ctx)
		assert.Equal(t, 1, n)
		return err
	}))
}

// Los bloqueos FOR UPDATE serializan reservas concurrentes del mismo producto.
func TestLedger_ConcurrentReserves(t *testing.T) {
	ctx, tx := reset(t)
	_, trays, err := location.NewRegistry(tx).CreateModule(ctx, "IL1", 0, 0, []int{10, 10})
	require.NoError(t, err)
	createProduct(t, ctx, tx, &entity.Product{ID: "p1", SKU: "P1", Name: "Tornillo"})
	l := ledger.New(tx)
	_, err = l.Assign(ctx, "p1", trays[0].ID, 6)
	require.NoError(t, err)
	_, err = l.Assign(ctx, "p1", trays[1].ID, 4)
	require.NoError(t, err)

	var (
		mu sync.Mutex
		ok int
	)
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			_, err := l.Reserve(ctx, "p1", 1)
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil
			}
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 10, ok)
}

func TestOrders_OnPostgres(t *testing.T) {
	ctx, tx := reset(t)
	_, trays, err := location.NewRegistry(tx).CreateModule(ctx, "IL1", 0, 0, []int{10})
	require.NoError(t, err)
	createProduct(t, ctx, tx, &entity.Product{ID: "p1", SKU: "P1", Name: "Tornillo", UnitCost: decimal.RequireFromString("2.25")})
	createProduct(t, ctx, tx, &entity.Product{ID: "p2", SKU: "P2", Name: "Tuerca"})
	l := ledger.New(tx)
	_, err = l.Assign(ctx, "p1", trays[0].ID, 10)
	require.NoError(t, err)

	engine := fulfillment.NewEngine(tx, l, nil)
	order, err := engine.CreateOrder(ctx, "ACME", []fulfillment.LineInput{
		{ProductID: "p1", Quantity: 10},
		{ProductID: "p2", Quantity: 1},
	})
	require.NoError(t, err)

	res, err := engine.FulfillLine(ctx, order.ID, "p1", 6)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPartial, res.Order.Status)

	got, err := engine.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "p1", got.Lines[0].ProductID, "las líneas conservan su orden")
	assert.Equal(t, 6, got.Lines[0].FulfilledQuantity)

	stats, err := query.NewProjection(tx).DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PendingOrders)
	assert.Equal(t, 4, stats.ItemsInStock)
	assert.True(t, decimal.RequireFromString("9").Equal(stats.InventoryValue))

	require.NoError(t, tx.View(ctx, func(r repository.Repos) error {
		open, err := r.Orders.HasOpenForProduct(ctx, "p2")
		assert.True(t, open)
		return err
	}))

	require.NoError(t, engine.Delete(ctx, order.ID))
	var lines int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM order_lines`).Scan(&lines))
	assert.Zero(t, lines)
}

// Una baja concurrente con la creación de una orden nunca deja líneas abiertas
// apuntando a un producto inexistente.
func TestDeleteProduct_SerializedWithCreateOrder(t *testing.T) {
	ctx, tx := reset(t)
	l := ledger.New(tx)
	products := usecase.NewProductUseCase(tx, l)
	engine := fulfillment.NewEngine(tx, l, nil)

	for i := 0; i < 40; i++ {
		id := fmt.Sprintf("p%d", i)
		createProduct(t, ctx, tx, &entity.Product{ID: id, SKU: "SKU-" + id, Name: "Tornillo"})

		var delErr, orderErr error
		var g errgroup.Group
		g.Go(func() error {
			delErr = products.Delete(ctx, id)
			return nil
		})
		g.Go(func() error {
			_, orderErr = engine.CreateOrder(ctx, "ACME", []fulfillment.LineInput{{ProductID: id, Quantity: 1}})
			return nil
		})
		require.NoError(t, g.Wait())

		if orderErr == nil {
			assert.ErrorIs(t, delErr, domain.ErrProductInUse, "iteración %d", i)
		} else {
			assert.ErrorIs(t, orderErr, domain.ErrProductNotFound, "iteración %d", i)
			assert.NoError(t, delErr, "iteración %d", i)
		}
	}

	var orphans int
	require.NoError(t, pool.QueryRow(ctx, `
		SELECT count(*) FROM order_lines ol
		LEFT JOIN products p ON p.id = ol.product_id
		WHERE p.id IS NULL`).Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestSearch_EscapesLikePattern(t *testing.T) {
	ctx, tx := reset(t)
	createProduct(t, ctx, tx, &entity.Product{ID: "p1", SKU: "P1", Name: "Descuento 100% algodón"})
	createProduct(t, ctx, tx, &entity.Product{ID: "p2", SKU: "P2", Name: "Camisa"})

	proj := query.NewProjection(tx)
	rows, err := proj.Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "P1", rows[0].Product.SKU)

	rows, err = proj.Search(ctx, "CAMISA")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Tray)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	ctx, tx := reset(t)
	u := &entity.User{ID: "u1", Email: "Ana@Bodega.io", PasswordHash: "x", Name: "Ana", Role: entity.RoleAdmin, Status: "active"}
	require.NoError(t, tx.Run(ctx, func(r repository.Repos) error { return r.Users.Create(ctx, u) }))

	err := tx.Run(ctx, func(r repository.Repos) error {
		return r.Users.Create(ctx, &entity.User{ID: "u2", Email: "ana@bodega.io", PasswordHash: "x", Role: entity.RoleViewer, Status: "active"})
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	require.NoError(t, tx.View(ctx, func(r repository.Repos) error {
		got, err := r.Users.GetByEmail(ctx, "ana@bodega.io")
		require.NotNil(t, got)
		assert.Equal(t, "u1", got.ID)
		return err
	}))
}
