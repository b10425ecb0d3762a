package location

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// Registry es el dueño de la topología de módulos y bandejas.
// Responde si una bandeja es una ubicación válida y si está ocupada según el ledger vigente.
type Registry struct {
	tx repository.TxRunner
}

// NewRegistry construye el registro de ubicaciones.
func NewRegistry(tx repository.TxRunner) *Registry {
	return &Registry{tx: tx}
}

// LocationStatus ubicación con su ocupante actual (nil si está vacía).
type LocationStatus struct {
	entity.Location
	Occupant *entity.StockAssignment
}

// CreateModule crea un módulo en (row, column) con una bandeja por capacidad indicada;
// los slots se numeran desde 1 en el orden recibido.
func (r *Registry) CreateModule(ctx context.Context, label string, row, column int, capacities []int) (*entity.Module, []*entity.Tray, error) {
	label = strings.TrimSpace(label)
	if label == "" || row < 0 || column < 0 || len(capacities) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	for _, c := range capacities {
		if c <= 0 {
			return nil, nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	module := &entity.Module{
		ID:        uuid.New().String(),
		Label:     label,
		Row:       row,
		Column:    column,
		CreatedAt: now,
	}
	trays := make([]*entity.Tray, 0, len(capacities))
	for i, c := range capacities {
		trays = append(trays, &entity.Tray{
			ID:        uuid.New().String(),
			ModuleID:  module.ID,
			SlotIndex: i + 1,
			Capacity:  c,
			CreatedAt: now,
		})
	}
	err := r.tx.Run(ctx, func(tx repository.Repos) error {
		if err := tx.Locations.CreateModule(ctx, module); err != nil {
			return err
		}
		for _, t := range trays {
			if err := tx.Locations.CreateTray(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return module, trays, nil
}

// ListModules primer paso de la selección en dos pasos.
func (r *Registry) ListModules(ctx context.Context) ([]*entity.Module, error) {
	var list []*entity.Module
	err := r.tx.View(ctx, func(tx repository.Repos) error {
		var err error
		list, err = tx.Locations.ListModules(ctx)
		return err
	})
	return list, err
}

// ListTrays segundo paso: bandejas del módulo elegido.
func (r *Registry) ListTrays(ctx context.Context, moduleID string) ([]*entity.Tray, error) {
	var list []*entity.Tray
	err := r.tx.View(ctx, func(tx repository.Repos) error {
		m, err := tx.Locations.GetModule(ctx, moduleID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrModuleNotFound
		}
		list, err = tx.Locations.ListTrays(ctx, moduleID)
		return err
	})
	return list, err
}

// ListLocations todas las ubicaciones en orden estable (fila, columna, slot).
func (r *Registry) ListLocations(ctx context.Context) ([]entity.Location, error) {
	var list []entity.Location
	err := r.tx.View(ctx, func(tx repository.Repos) error {
		var err error
		list, err = tx.Locations.ListLocations(ctx)
		return err
	})
	return list, err
}

// Schematic ubicaciones y ocupación leídas en un mismo snapshot (para el plano de colores).
func (r *Registry) Schematic(ctx context.Context) ([]LocationStatus, error) {
	var out []LocationStatus
	err := r.tx.View(ctx, func(tx repository.Repos) error {
		locs, err := tx.Locations.ListLocations(ctx)
		if err != nil {
			return err
		}
		assignments, err := tx.Assignments.List(ctx)
		if err != nil {
			return err
		}
		byTray := make(map[string]*entity.StockAssignment, len(assignments))
		for _, a := range assignments {
			byTray[a.TrayID] = a
		}
		out = make([]LocationStatus, 0, len(locs))
		for _, l := range locs {
			out = append(out, LocationStatus{Location: l, Occupant: byTray[l.Tray.ID]})
		}
		return nil
	})
	return out, err
}

// Resolve valida el par (módulo, slot) contra la topología antes de cualquier asignación.
func (r *Registry) Resolve(ctx context.Context, moduleID string, slot int) (*entity.Tray, error) {
	var tray *entity.Tray
	err := r.tx.View(ctx, func(tx repository.Repos) error {
		var err error
		tray, err = ResolveInTx(ctx, tx, moduleID, slot)
		return err
	})
	return tray, err
}

// ResolveInTx igual que Resolve dentro de la transacción del caller.
func ResolveInTx(ctx context.Context, tx repository.Repos, moduleID string, slot int) (*entity.Tray, error) {
	m, err := tx.Locations.GetModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrModuleNotFound
	}
	tray, err := tx.Locations.GetTrayBySlot(ctx, moduleID, slot)
	if err != nil {
		return nil, err
	}
	if tray == nil {
		return nil, domain.ErrTrayNotFound
	}
	return tray, nil
}

// IsOccupied consulta el ledger vigente, no una copia en caché.
func (r *Registry) IsOccupied(ctx context.Context, trayID string) (bool, error) {
	var occupied bool
	err := r.tx.View(ctx, func(tx repository.Repos) error {
		tray, err := tx.Locations.GetTray(ctx, trayID)
		if err != nil {
			return err
		}
		if tray == nil {
			return domain.ErrTrayNotFound
		}
		a, err := tx.Assignments.GetByTray(ctx, trayID)
		if err != nil {
			return err
		}
		occupied = a != nil
		return nil
	})
	return occupied, err
}
