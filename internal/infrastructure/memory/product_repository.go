package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo en memoria.
type ProductRepo struct{ base }

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	if err := r.checkWrite(); err != nil {
		return err
	}
	for _, p := range r.st.products {
		if p.SKU == product.SKU || p.ID == product.ID {
			return domain.ErrDuplicate
		}
	}
	r.st.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.st.products {
		if p.SKU == sku {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	if err := r.checkWrite(); err != nil {
		return err
	}
	p, ok := r.st.products[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Name = product.Name
	p.Description = product.Description
	p.UnitCost = product.UnitCost
	p.UpdatedAt = product.UpdatedAt
	r.st.products[p.ID] = p
	return nil
}

func (r *ProductRepo) UpdateQuantity(_ context.Context, id string, quantity int) error {
	if err := r.checkWrite(); err != nil {
		return err
	}
	p, ok := r.st.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if quantity < 0 {
		return domain.ErrInsufficientStock
	}
	p.Quantity = quantity
	r.st.products[id] = p
	return nil
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	all := r.sorted(func(*entity.Product) bool { return true })
	return page(all, limit, offset), nil
}

func (r *ProductRepo) Search(_ context.Context, term string) ([]*entity.Product, error) {
	return r.sorted(func(p *entity.Product) bool { return p.MatchesTerm(term) }), nil
}

func (r *ProductRepo) Summary(_ context.Context) (repository.ProductSummary, error) {
	sum := repository.ProductSummary{InventoryValue: decimal.Zero}
	for _, p := range r.st.products {
		sum.TotalSKUs++
		sum.ItemsInStock += p.Quantity
		sum.InventoryValue = sum.InventoryValue.Add(p.UnitCost.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return sum, nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	if err := r.checkWrite(); err != nil {
		return err
	}
	delete(r.st.products, id)
	return nil
}

func (r *ProductRepo) sorted(keep func(*entity.Product) bool) []*entity.Product {
	var list []*entity.Product
	for _, p := range r.st.products {
		p := p
		if keep(&p) {
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return list
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
