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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre las tablas modules y trays.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de topología. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const (
	moduleColumns = `id, label, row_index, column_index, created_at`
	trayColumns   = `id, module_id, slot_index, capacity, created_at`
)

// CreateModule persiste un módulo. Una posición o etiqueta repetida se traduce a error de dominio.
func (r *LocationRepo) CreateModule(ctx context.Context, module *entity.Module) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO modules (`+moduleColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		module.ID, module.Label, module.Row, module.Column, module.CreatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraint == "modules_position_key" {
				return domain.ErrPositionTaken
			}
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert module: %w", err)
	}
	return nil
}

func (r *LocationRepo) CreateTray(ctx context.Context, tray *entity.Tray) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO trays (`+trayColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		tray.ID, tray.ModuleID, tray.SlotIndex, tray.Capacity, tray.CreatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tray: %w", err)
	}
	return nil
}

func (r *LocationRepo) GetModule(ctx context.Context, id string) (*entity.Module, error) {
	row := r.q.QueryRow(ctx, `SELECT `+moduleColumns+` FROM modules WHERE id = $1`, id)
	m, err := scanModule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get module: %w", err)
	}
	return m, nil
}

func (r *LocationRepo) ListModules(ctx context.Context) ([]*entity.Module, error) {
	rows, err := r.q.Query(ctx, `SELECT `+moduleColumns+` FROM modules ORDER BY row_index, column_index`)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()
	var list []*entity.Module
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *LocationRepo) GetTray(ctx context.Context, id string) (*entity.Tray, error) {
	return r.getTray(ctx, `SELECT `+trayColumns+` FROM trays WHERE id = $1`, id)
}

// GetTrayForUpdate toma el lock de fila de la bandeja; el ledger lo usa para serializar
// escrituras concurrentes sobre la misma bandeja.
func (r *LocationRepo) GetTrayForUpdate(ctx context.Context, id string) (*entity.Tray, error) {
	return r.getTray(ctx, `SELECT `+trayColumns+` FROM trays WHERE id = $1 FOR UPDATE`, id)
}

func (r *LocationRepo) GetTrayBySlot(ctx context.Context, moduleID string, slot int) (*entity.Tray, error) {
	return r.getTray(ctx, `SELECT `+trayColumns+` FROM trays WHERE module_id = $1 AND slot_index = $2`, moduleID, slot)
}

func (r *LocationRepo) getTray(ctx context.Context, query string, args ...any) (*entity.Tray, error) {
	t, err := scanTray(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tray: %w", err)
	}
	return t, nil
}

func (r *LocationRepo) ListTrays(ctx context.Context, moduleID string) ([]*entity.Tray, error) {
	rows, err := r.q.Query(ctx, `SELECT `+trayColumns+` FROM trays WHERE module_id = $1 ORDER BY slot_index`, moduleID)
	if err != nil {
		return nil, fmt.Errorf("list trays: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tray
	for rows.Next() {
		t, err := scanTray(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tray: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *LocationRepo) ListLocations(ctx context.Context) ([]entity.Location, error) {
	query := `
		SELECT m.id, m.label, m.row_index, m.column_index, m.created_at,
		       t.id, t.module_id, t.slot_index, t.capacity, t.created_at
		FROM trays t
		JOIN modules m ON m.id = t.module_id
		ORDER BY m.row_index, m.column_index, t.slot_index, t.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(
			&l.Module.ID, &l.Module.Label, &l.Module.Row, &l.Module.Column, &l.Module.CreatedAt,
			&l.Tray.ID, &l.Tray.ModuleID, &l.Tray.SlotIndex, &l.Tray.Capacity, &l.Tray.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *LocationRepo) CountTrays(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM trays`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trays: %w", err)
	}
	return n, nil
}

func scanModule(row pgx.Row) (*entity.Module, error) {
	var m entity.Module
	if err := row.Scan(&m.ID, &m.Label, &m.Row, &m.Column, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanTray(row pgx.Row) (*entity.Tray, error) {
	var t entity.Tray
	if err := row.Scan(&t.ID, &t.ModuleID, &t.SlotIndex, &t.Capacity, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
