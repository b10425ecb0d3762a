// Package seed carga el inventario de demostración: módulos IL1, IL2, IL4 e IL10 y cinco
// productos ubicados en ellos. Es idempotente: lo que ya existe se omite.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/location"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

type demoModule struct {
	label    string
	row, col int
	trays    int
	capacity int
}

type demoProduct struct {
	sku, name string
	module    string
	slot      int
	quantity  int
	unitCost  string
}

var demoModules = []demoModule{
	{label: "IL1", row: 0, col: 0, trays: 6, capacity: 200},
	{label: "IL2", row: 0, col: 1, trays: 6, capacity: 400},
	{label: "IL4", row: 1, col: 0, trays: 6, capacity: 300},
	{label: "IL10", row: 1, col: 1, trays: 6, capacity: 100},
}

var demoProducts = []demoProduct{
	{sku: "SKU001", name: "Wireless Mouse", module: "IL1", slot: 1, quantity: 150, unitCost: "12.50"},
	{sku: "SKU002", name: "Mechanical Keyboard", module: "IL1", slot: 2, quantity: 80, unitCost: "45.00"},
	{sku: "SKU003", name: "USB-C Cable", module: "IL2", slot: 1, quantity: 300, unitCost: "3.20"},
	{sku: "SKU004", name: "Monitor Stand", module: "IL10", slot: 3, quantity: 50, unitCost: "28.90"},
	{sku: "SKU005", name: "Laptop Sleeve", module: "IL4", slot: 4, quantity: 250, unitCost: "9.75"},
}

// Result conteo de lo creado en esta ejecución.
type Result struct {
	Modules  int
	Products int
}

// Demo carga módulos y productos de demostración.
func Demo(ctx context.Context, registry *location.Registry, products *usecase.ProductUseCase, log *logger.Logger) (Result, error) {
	var res Result
	moduleIDs := map[string]string{}

	existing, err := registry.ListModules(ctx)
	if err != nil {
		return res, err
	}
	for _, m := range existing {
		moduleIDs[m.Label] = m.ID
	}

	for _, dm := range demoModules {
		if _, ok := moduleIDs[dm.label]; ok {
			continue
		}
		caps := make([]int, dm.trays)
		for i := range caps {
			caps[i] = dm.capacity
		}
		m, _, err := registry.CreateModule(ctx, dm.label, dm.row, dm.col, caps)
		if err != nil {
			return res, fmt.Errorf("seed módulo %s: %w", dm.label, err)
		}
		moduleIDs[dm.label] = m.ID
		res.Modules++
	}

	for _, dp := range demoProducts {
		_, err := products.Create(ctx, dto.CreateProductRequest{
			SKU:      dp.sku,
			Name:     dp.name,
			UnitCost: decimal.RequireFromString(dp.unitCost),
			Placement: &dto.PlacementRequest{
				ModuleID: moduleIDs[dp.module],
				Slot:     dp.slot,
				Quantity: dp.quantity,
			},
		})
		if errors.Is(err, domain.ErrDuplicate) {
			log.Debug().Str("sku", dp.sku).Msg("producto ya existe, se omite")
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed producto %s: %w", dp.sku, err)
		}
		res.Products++
	}
	return res, nil
}
