package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para la topología (módulos y bandejas).
// Los Get devuelven (nil, nil) cuando el recurso no existe.
type LocationRepository interface {
	CreateModule(ctx context.Context, module *entity.Module) error
	CreateTray(ctx context.Context, tray *entity.Tray) error
	GetModule(ctx context.Context, id string) (*entity.Module, error)
	// ListModules ordenado por (fila, columna).
	ListModules(ctx context.Context) ([]*entity.Module, error)
	GetTray(ctx context.Context, id string) (*entity.Tray, error)
	// GetTrayForUpdate bloquea la bandeja hasta el fin de la transacción.
	GetTrayForUpdate(ctx context.Context, id string) (*entity.Tray, error)
	GetTrayBySlot(ctx context.Context, moduleID string, slot int) (*entity.Tray, error)
	// ListTrays bandejas de un módulo ordenadas por slot.
	ListTrays(ctx context.Context, moduleID string) ([]*entity.Tray, error)
	// ListLocations todas las ubicaciones ordenadas por (fila, columna, slot).
	ListLocations(ctx context.Context) ([]entity.Location, error)
	CountTrays(ctx context.Context) (int, error)
}
