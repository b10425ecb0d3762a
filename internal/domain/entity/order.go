package entity

import "time"

// OrderStatus estado de una orden. Pending, Partial y Completed se derivan de las líneas;
// Cancelled es terminal y solo se alcanza desde Pending o Partial.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPartial   OrderStatus = "Partial"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Valid indica si el estado es uno de los conocidos.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPartial, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Open indica si la orden todavía puede despacharse.
func (s OrderStatus) Open() bool {
	return s == OrderStatusPending || s == OrderStatusPartial
}

// CancelledStatusNote aclara al usuario que cancelar no reintegra lo ya despachado.
const CancelledStatusNote = "orden cancelada: las cantidades ya despachadas permanecen consumidas y no se reintegran al inventario"

// Order pedido de un cliente con líneas ordenadas.
type Order struct {
	ID        string
	Customer  string
	Status    OrderStatus
	Lines     []OrderLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine solicitud de un producto dentro de una orden (0 <= Fulfilled <= Requested).
type OrderLine struct {
	ProductID         string
	RequestedQuantity int
	FulfilledQuantity int
}

// Remaining cantidad pendiente de despachar.
func (l OrderLine) Remaining() int {
	return l.RequestedQuantity - l.FulfilledQuantity
}

// DeriveStatus calcula el estado a partir de las líneas:
// Completed si todas están completas, Pending si ninguna tiene avance, Partial en otro caso.
func DeriveStatus(lines []OrderLine) OrderStatus {
	complete, touched := 0, 0
	for _, l := range lines {
		if l.FulfilledQuantity >= l.RequestedQuantity {
			complete++
		}
		if l.FulfilledQuantity > 0 {
			touched++
		}
	}
	switch {
	case len(lines) > 0 && complete == len(lines):
		return OrderStatusCompleted
	case touched == 0:
		return OrderStatusPending
	default:
		return OrderStatusPartial
	}
}

// RecomputeStatus actualiza Status desde las líneas salvo que la orden esté cancelada.
func (o *Order) RecomputeStatus() {
	if o.Status == OrderStatusCancelled {
		return
	}
	o.Status = DeriveStatus(o.Lines)
}

// LineIndex devuelve el índice de la línea del producto o -1 si no existe.
func (o *Order) LineIndex(productID string) int {
	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// StatusNote nota visible para el usuario según el estado.
func (o *Order) StatusNote() string {
	if o.Status == OrderStatusCancelled {
		return CancelledStatusNote
	}
	return ""
}

// Clone copia profunda (las líneas incluidas).
func (o *Order) Clone() *Order {
	c := *o
	c.Lines = append([]OrderLine(nil), o.Lines...)
	return &c
}
