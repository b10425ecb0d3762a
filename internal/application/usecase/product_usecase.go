package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/ledger"
	"github.com/jhoicas/warehouse-api/internal/application/location"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. La cantidad se maneja solo vía el ledger.
type ProductUseCase struct {
	tx     repository.TxRunner
	ledger *ledger.Ledger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx repository.TxRunner, l *ledger.Ledger) *ProductUseCase {
	return &ProductUseCase{tx: tx, ledger: l}
}

// Create crea un producto con cantidad 0 y, si viene Placement, lo ubica en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if pl := in.Placement; pl != nil {
		if pl.Quantity < 1 || (pl.TrayID == "" && pl.ModuleID == "") {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		UnitCost:    in.UnitCost,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		existing, err := tx.Products.GetBySKU(ctx, in.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := tx.Products.Create(ctx, product); err != nil {
			return err
		}
		pl := in.Placement
		if pl == nil {
			return nil
		}
		trayID := pl.TrayID
		if trayID == "" {
			tray, err := location.ResolveInTx(ctx, tx, pl.ModuleID, pl.Slot)
			if err != nil {
				return err
			}
			trayID = tray.ID
		}
		if _, err := uc.ledger.AssignInTx(ctx, tx, product.ID, trayID, pl.Quantity); err != nil {
			return err
		}
		product.Quantity = pl.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	return uc.get(ctx, func(tx repository.Repos) (*entity.Product, error) {
		return tx.Products.GetByID(ctx, id)
	})
}

// GetBySKU obtiene un producto por SKU.
func (uc *ProductUseCase) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	return uc.get(ctx, func(tx repository.Repos) (*entity.Product, error) {
		return tx.Products.GetBySKU(ctx, sku)
	})
}

func (uc *ProductUseCase) get(ctx context.Context, find func(tx repository.Repos) (*entity.Product, error)) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.tx.View(ctx, func(tx repository.Repos) error {
		var err error
		product, err = find(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar SKU ni cantidad.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		product, err = tx.Products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.ErrInvalidInput
			}
			product.Name = name
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.UnitCost != nil {
			if in.UnitCost.LessThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			product.UnitCost = *in.UnitCost
		}
		product.UpdatedAt = time.Now()
		return tx.Products.Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos por SKU con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	var list []*entity.Product
	err := uc.tx.View(ctx, func(tx repository.Repos) error {
		var err error
		list, err = tx.Products.List(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete da de baja un producto: libera sus bandejas vía el ledger y lo elimina.
// Falla con ErrProductInUse si alguna orden abierta lo referencia. El producto se bloquea
// antes de consultar las órdenes: CreateOrder toma el mismo bloqueo.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(tx repository.Repos) error {
		product, err := tx.Products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		open, err := tx.Orders.HasOpenForProduct(ctx, id)
		if err != nil {
			return err
		}
		if open {
			return domain.ErrProductInUse
		}
		if err := uc.ledger.ReleaseAllInTx(ctx, tx, id); err != nil {
			return err
		}
		return tx.Products.Delete(ctx, id)
	})
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Quantity:    p.Quantity,
		UnitCost:    p.UnitCost,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
