// Package memory implementa los puertos de persistencia en memoria.
//
// Las escrituras se serializan con un único mutex de escritor y trabajan sobre una copia
// del estado; al confirmar, la copia reemplaza al estado vigente. Los lectores toman el
// estado vigente completo, que nunca se modifica después de publicado, así que siempre
// ven un snapshot consistente sin bloquear a los escritores.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

// errReadOnly se devuelve si se intenta escribir desde View.
var errReadOnly = errors.New("memory: escritura en transacción de solo lectura")

type state struct {
	modules     map[string]entity.Module
	trays       map[string]entity.Tray
	products    map[string]entity.Product
	assignments map[string]entity.StockAssignment // por tray_id
	orders      map[string]*entity.Order
	users       map[string]entity.User
}

func newState() *state {
	return &state{
		modules:     map[string]entity.Module{},
		trays:       map[string]entity.Tray{},
		products:    map[string]entity.Product{},
		assignments: map[string]entity.StockAssignment{},
		orders:      map[string]*entity.Order{},
		users:       map[string]entity.User{},
	}
}

func (s *state) clone() *state {
	c := &state{
		modules:     make(map[string]entity.Module, len(s.modules)),
		trays:       make(map[string]entity.Tray, len(s.trays)),
		products:    make(map[string]entity.Product, len(s.products)),
		assignments: make(map[string]entity.StockAssignment, len(s.assignments)),
		orders:      make(map[string]*entity.Order, len(s.orders)),
		users:       make(map[string]entity.User, len(s.users)),
	}
	for k, v := range s.modules {
		c.modules[k] = v
	}
	for k, v := range s.trays {
		c.trays[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.assignments {
		c.assignments[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v.Clone()
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// Store almacén en memoria; implementa repository.TxRunner.
type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	cur     *state
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{cur: newState()}
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	next := s.cur.clone()
	s.mu.RUnlock()

	if err := fn(reposFor(next, true)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.cur = next
	s.mu.Unlock()
	return nil
}

// View ejecuta fn sobre el snapshot vigente.
func (s *Store) View(ctx context.Context, fn func(tx repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	snap := s.cur
	s.mu.RUnlock()
	return fn(reposFor(snap, false))
}

func reposFor(st *state, writable bool) repository.Repos {
	b := base{st: st, writable: writable}
	return repository.Repos{
		Locations:   &LocationRepo{b},
		Products:    &ProductRepo{b},
		Assignments: &AssignmentRepo{b},
		Orders:      &OrderRepo{b},
		Users:       &UserRepo{b},
	}
}

type base struct {
	st       *state
	writable bool
}

func (b base) checkWrite() error {
	if !b.writable {
		return errReadOnly
	}
	return nil
}
