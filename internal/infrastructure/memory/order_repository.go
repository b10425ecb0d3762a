package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo órdenes en memoria; guarda y entrega copias.
type OrderRepo struct{ base }

func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	if err := r.checkWrite(); err != nil {
		return err
	}
	if _, ok := r.st.orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	r.st.orders[order.ID] = order.Clone()
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.st.orders[id]
	if !ok {
		return nil, nil
	}
	return o.Clone(), nil
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) Update(_ context.Context, order *entity.Order) error {
	if err := r.checkWrite(); err != nil {
		return err
	}
	if _, ok := r.st.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.st.orders[order.ID] = order.Clone()
	return nil
}

func (r *OrderRepo) List(_ context.Context, limit, offset int) ([]*entity.Order, error) {
	list := make([]*entity.Order, 0, len(r.st.orders))
	for _, o := range r.st.orders {
		list = append(list, o.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset), nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	if err := r.checkWrite(); err != nil {
		return err
	}
	delete(r.st.orders, id)
	return nil
}

func (r *OrderRepo) CountByStatus(_ context.Context) (map[entity.OrderStatus]int, error) {
	counts := map[entity.OrderStatus]int{}
	for _, o := range r.st.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func (r *OrderRepo) HasOpenForProduct(_ context.Context, productID string) (bool, error) {
	for _, o := range r.st.orders {
		if o.Status.Open() && o.LineIndex(productID) >= 0 {
			return true, nil
		}
	}
	return false, nil
}
