package repository

import "context"

// Repos repositorios atados a una misma transacción (o snapshot de lectura).
type Repos struct {
	Locations   LocationRepository
	Products    ProductRepository
	Assignments AssignmentRepository
	Orders      OrderRepository
	Users       UserRepository
}

// TxRunner ejecuta funciones dentro de una transacción de BD, pasando repositorios atados a ella.
// Run es de lectura/escritura: si fn devuelve error se hace Rollback y nada queda visible.
// View abre un snapshot consistente de solo lectura.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Repos) error) error
	View(ctx context.Context, fn func(tx Repos) error) error
}
