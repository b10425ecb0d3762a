package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// ProductSummary agregados del catálogo para el dashboard.
type ProductSummary struct {
	TotalSKUs      int
	ItemsInStock   int
	InventoryValue decimal.Decimal
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila del producto (serializa operaciones de stock del producto).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Update persiste nombre, descripción y costo; no toca SKU ni cantidad.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateQuantity uso exclusivo del ledger de stock.
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// Search SKU exacto o subcadena del nombre sin distinguir mayúsculas, ordenado por SKU.
	Search(ctx context.Context, term string) ([]*entity.Product, error)
	Summary(ctx context.Context) (ProductSummary, error)
	Delete(ctx context.Context, id string) error
}
