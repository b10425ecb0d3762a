package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo topología en memoria.
type LocationRepo struct{ base }

// CreateModule aplica las mismas restricciones únicas que la tabla modules.
func (r *LocationRepo) CreateModule(_ context.Context, module *entity.Module) error {
	if err := r.checkWrite(); err != nil {
		return err
	}
	for _, m := range r.st.modules {
		if m.Row == module.Row && m.Column == module.Column {
			return domain.ErrPositionTaken
		}
		if m.Label == module.Label || m.ID == module.ID {
			return domain.ErrDuplicate
		}
	}
	r.st.modules[module.ID] = *module
	return nil
}

// CreateTray exige módulo existente y slot libre.
func (r *LocationRepo) CreateTray(_ context.Context, tray *entity.Tray) error {
	if err := r.checkWrite(); err != nil {
		return err
	}
	if _, ok := r.st.modules[tray.ModuleID]; !ok {
		return domain.ErrModuleNotFound
	}
	for _, t := range r.st.trays {
		if (t.ModuleID == tray.ModuleID && t.SlotIndex == tray.SlotIndex) || t.ID == tray.ID {
			return domain.ErrDuplicate
		}
	}
	r.st.trays[tray.ID] = *tray
	return nil
}

func (r *LocationRepo) GetModule(_ context.Context, id string) (*entity.Module, error) {
	m, ok := r.st.modules[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *LocationRepo) ListModules(_ context.Context) ([]*entity.Module, error) {
	list := make([]*entity.Module, 0, len(r.st.modules))
	for _, m := range r.st.modules {
		m := m
		list = append(list, &m)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Row != list[j].Row {
			return list[i].Row < list[j].Row
		}
		return list[i].Column < list[j].Column
	})
	return list, nil
}

func (r *LocationRepo) GetTray(_ context.Context, id string) (*entity.Tray, error) {
	t, ok := r.st.trays[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// GetTrayForUpdate en memoria no necesita bloqueo: Run ya serializa escritores.
func (r *LocationRepo) GetTrayForUpdate(ctx context.Context, id string) (*entity.Tray, error) {
	return r.GetTray(ctx, id)
}

func (r *LocationRepo) GetTrayBySlot(_ context.Context, moduleID string, slot int) (*entity.Tray, error) {
	for _, t := range r.st.trays {
		if t.ModuleID == moduleID && t.SlotIndex == slot {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (r *LocationRepo) ListTrays(_ context.Context, moduleID string) ([]*entity.Tray, error) {
	var list []*entity.Tray
	for _, t := range r.st.trays {
		if t.ModuleID == moduleID {
			t := t
			list = append(list, &t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SlotIndex < list[j].SlotIndex })
	return list, nil
}

func (r *LocationRepo) ListLocations(_ context.Context) ([]entity.Location, error) {
	list := make([]entity.Location, 0, len(r.st.trays))
	for _, t := range r.st.trays {
		m, ok := r.st.modules[t.ModuleID]
		if !ok {
			continue
		}
		list = append(list, entity.Location{Module: m, Tray: t})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Less(list[j]) })
	return list, nil
}

func (r *LocationRepo) CountTrays(_ context.Context) (int, error) {
	return len(r.st.trays), nil
}
