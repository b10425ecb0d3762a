package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre orders y order_lines.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, customer, status, created_at, updated_at`

// Create inserta la cabecera y luego cada línea. Debe correr dentro de una tx.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if _, err := r.q.Exec(ctx,
		`INSERT INTO orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		order.ID, order.Customer, string(order.Status), order.CreatedAt, order.UpdatedAt,
	); err != nil {
		if _, ok := uniqueViolation(err); ok {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	for i, l := range order.Lines {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO order_lines (order_id, line_no, product_id, requested_quantity, fulfilled_quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			order.ID, i+1, l.ProductID, l.RequestedQuantity, l.FulfilledQuantity,
		); err != nil {
			if _, ok := uniqueViolation(err); ok {
				return fmt.Errorf("%w: producto repetido en la orden", domain.ErrInvalidInput)
			}
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera; las líneas solo se modifican con ese lock tomado.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// Update persiste estado y cantidades despachadas.
func (r *OrderRepo) Update(ctx context.Context, order *entity.Order) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		order.ID, string(order.Status), order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	for _, l := range order.Lines {
		if _, err := r.q.Exec(ctx,
			`UPDATE order_lines SET fulfilled_quantity = $3 WHERE order_id = $1 AND product_id = $2`,
			order.ID, l.ProductID, l.FulfilledQuantity,
		); err != nil {
			return fmt.Errorf("update order line: %w", err)
		}
	}
	return nil
}

// List órdenes más recientes primero, con sus líneas.
func (r *OrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OrderRepo) loadLines(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*entity.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}
	rows, err := r.q.Query(ctx, `
		SELECT order_id, product_id, requested_quantity, fulfilled_quantity
		FROM order_lines WHERE order_id = ANY($1) ORDER BY order_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var orderID string
		var l entity.OrderLine
		if err := rows.Scan(&orderID, &l.ProductID, &l.RequestedQuantity, &l.FulfilledQuantity); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		o := byID[orderID]
		o.Lines = append(o.Lines, l)
	}
	return rows.Err()
}

// Delete elimina la orden; las líneas caen por ON DELETE CASCADE.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (r *OrderRepo) CountByStatus(ctx context.Context) (map[entity.OrderStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	defer rows.Close()
	counts := map[entity.OrderStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan order count: %w", err)
		}
		counts[entity.OrderStatus(status)] = n
	}
	return counts, rows.Err()
}

func (r *OrderRepo) HasOpenForProduct(ctx context.Context, productID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM order_lines l JOIN orders o ON o.id = l.order_id
			WHERE l.product_id = $1 AND o.status IN ('Pending', 'Partial')
		)`, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check open orders: %w", err)
	}
	return exists, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var status string
	if err := row.Scan(&o.ID, &o.Customer, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}
