package entity

import "time"

// StockAssignment es el único vínculo mutable entre un producto y una bandeja.
// Una bandeja tiene como máximo una asignación viva y 1 <= Quantity <= Tray.Capacity;
// al llegar a 0 la asignación se elimina.
type StockAssignment struct {
	ProductID  string
	TrayID     string
	Quantity   int
	AssignedAt time.Time // define el orden de consumo en reservas (más antigua primero)
	UpdatedAt  time.Time
}

// Allocation cantidad tomada de una bandeja durante una reserva.
type Allocation struct {
	TrayID   string
	Quantity int
}
