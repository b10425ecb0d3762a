package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Product representa un producto o SKU almacenado en bandejas.
// Quantity es el total en mano y solo lo modifica el ledger de stock: siempre es la suma
// de las cantidades de sus asignaciones.
type Product struct {
	ID          string
	SKU         string // único e inmutable
	Name        string
	Description string
	Quantity    int
	UnitCost    decimal.Decimal // opcional; solo alimenta el valor del inventario
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MatchesTerm indica si el término coincide exacto con el SKU o es subcadena del nombre
// sin distinguir mayúsculas (plegado Unicode, así "CAFÉ" encuentra "café").
func (p *Product) MatchesTerm(term string) bool {
	if term == "" {
		return false
	}
	if p.SKU == term {
		return true
	}
	fold := cases.Fold() // un Caser no se comparte entre goroutines
	return strings.Contains(fold.String(p.Name), fold.String(term))
}
