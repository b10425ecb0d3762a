package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// AssignmentRepository define el puerto para las asignaciones producto-bandeja.
// La clave natural es la bandeja: una bandeja tiene a lo sumo una asignación.
type AssignmentRepository interface {
	GetByTray(ctx context.Context, trayID string) (*entity.StockAssignment, error)
	// ListByProduct ordenado por AssignedAt y luego TrayID (orden de consumo de reservas).
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockAssignment, error)
	// ListByProductForUpdate igual que ListByProduct bloqueando las filas.
	ListByProductForUpdate(ctx context.Context, productID string) ([]*entity.StockAssignment, error)
	// List todas las asignaciones ordenadas por bandeja.
	List(ctx context.Context) ([]*entity.StockAssignment, error)
	Upsert(ctx context.Context, assignment *entity.StockAssignment) error
	Delete(ctx context.Context, trayID string) error
	CountOccupied(ctx context.Context) (int, error)
}
