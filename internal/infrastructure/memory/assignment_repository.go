package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)

// AssignmentRepo asignaciones en memoria indexadas por bandeja.
type AssignmentRepo struct{ base }

func (r *AssignmentRepo) GetByTray(_ context.Context, trayID string) (*entity.StockAssignment, error) {
	a, ok := r.st.assignments[trayID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AssignmentRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockAssignment, error) {
	var list []*entity.StockAssignment
	for _, a := range r.st.assignments {
		if a.ProductID == productID {
			a := a
			list = append(list, &a)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].AssignedAt.Equal(list[j].AssignedAt) {
			return list[i].AssignedAt.Before(list[j].AssignedAt)
		}
		return list[i].TrayID < list[j].TrayID
	})
	return list, nil
}

func (r *AssignmentRepo) ListByProductForUpdate(ctx context.Context, productID string) ([]*entity.StockAssignment, error) {
	return r.ListByProduct(ctx, productID)
}

func (r *AssignmentRepo) List(_ context.Context) ([]*entity.StockAssignment, error) {
	list := make([]*entity.StockAssignment, 0, len(r.st.assignments))
	for _, a := range r.st.assignments {
		a := a
		list = append(list, &a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].TrayID < list[j].TrayID })
	return list, nil
}

// Upsert replica UNIQUE(tray_id) y CHECK(quantity > 0) de la tabla stock_assignments.
func (r *AssignmentRepo) Upsert(_ context.Context, assignment *entity.StockAssignment) error {
	if err := r.checkWrite(); err != nil {
		return err
	}
	if assignment.Quantity <= 0 {
		return fmt.Errorf("upsert assignment: cantidad %d fuera de rango", assignment.Quantity)
	}
	if cur, ok := r.st.assignments[assignment.TrayID]; ok && cur.ProductID != assignment.ProductID {
		return domain.ErrTrayOccupiedByOther
	}
	r.st.assignments[assignment.TrayID] = *assignment
	return nil
}

func (r *AssignmentRepo) Delete(_ context.Context, trayID string) error {
	if err := r.checkWrite(); err != nil {
		return err
	}
	delete(r.st.assignments, trayID)
	return nil
}

func (r *AssignmentRepo) CountOccupied(_ context.Context) (int, error) {
	return len(r.st.assignments), nil
}
