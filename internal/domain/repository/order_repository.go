package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la orden hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// Update persiste estado, updated_at y cantidades despachadas de las líneas.
	Update(ctx context.Context, order *entity.Order) error
	// List más recientes primero.
	List(ctx context.Context, limit, offset int) ([]*entity.Order, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[entity.OrderStatus]int, error)
	HasOpenForProduct(ctx context.Context, productID string) (bool, error)
}
