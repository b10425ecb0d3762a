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

var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)

// AssignmentRepo implementación de AssignmentRepository sobre stock_assignments.
type AssignmentRepo struct {
	q Querier
}

// NewAssignmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

const assignmentColumns = `tray_id, product_id, quantity, assigned_at, updated_at`

func (r *AssignmentRepo) GetByTray(ctx context.Context, trayID string) (*entity.StockAssignment, error) {
	a, err := scanAssignment(r.q.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM stock_assignments WHERE tray_id = $1`, trayID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

func (r *AssignmentRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockAssignment, error) {
	return r.list(ctx, `SELECT `+assignmentColumns+` FROM stock_assignments
		WHERE product_id = $1 ORDER BY assigned_at, tray_id`, productID)
}

func (r *AssignmentRepo) ListByProductForUpdate(ctx context.Context, productID string) ([]*entity.StockAssignment, error) {
	return r.list(ctx, `SELECT `+assignmentColumns+` FROM stock_assignments
		WHERE product_id = $1 ORDER BY assigned_at, tray_id FOR UPDATE`, productID)
}

func (r *AssignmentRepo) List(ctx context.Context) ([]*entity.StockAssignment, error) {
	return r.list(ctx, `SELECT `+assignmentColumns+` FROM stock_assignments ORDER BY tray_id`)
}

func (r *AssignmentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockAssignment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Upsert inserta o actualiza la asignación de la bandeja. Si la bandeja está tomada por otro
// producto el WHERE del ON CONFLICT no actualiza nada y se devuelve ErrTrayOccupiedByOther.
func (r *AssignmentRepo) Upsert(ctx context.Context, a *entity.StockAssignment) error {
	query := `
		INSERT INTO stock_assignments (` + assignmentColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tray_id) DO UPDATE
		SET quantity = EXCLUDED.quantity, assigned_at = EXCLUDED.assigned_at, updated_at = EXCLUDED.updated_at
		WHERE stock_assignments.product_id = EXCLUDED.product_id`
	tag, err := r.q.Exec(ctx, query, a.TrayID, a.ProductID, a.Quantity, a.AssignedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTrayOccupiedByOther
	}
	return nil
}

func (r *AssignmentRepo) Delete(ctx context.Context, trayID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_assignments WHERE tray_id = $1`, trayID); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepo) CountOccupied(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_assignments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count occupied trays: %w", err)
	}
	return n, nil
}

func scanAssignment(row pgx.Row) (*entity.StockAssignment, error) {
	var a entity.StockAssignment
	if err := row.Scan(&a.TrayID, &a.ProductID, &a.Quantity, &a.AssignedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
