package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Los errores base definen la categoría; los específicos la envuelven para que el caller
// pueda usar errors.Is a cualquiera de los dos niveles.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrOverFulfillment    = errors.New("la cantidad excede lo solicitado en la línea")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrEmailAlreadyExists = fmt.Errorf("%w: el email ya está registrado", ErrDuplicate)
)

// NotFound específicos.
var (
	ErrModuleNotFound  = fmt.Errorf("%w: módulo", ErrNotFound)
	ErrTrayNotFound    = fmt.Errorf("%w: bandeja", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("%w: producto", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("%w: orden", ErrNotFound)
	ErrLineNotFound    = fmt.Errorf("%w: línea de orden", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("%w: usuario", ErrNotFound)
)

// Violaciones de ocupación y capacidad de bandejas.
var (
	ErrTrayOccupiedByOther = fmt.Errorf("%w: la bandeja ya está ocupada por otro producto", ErrConflict)
	ErrDestinationOccupied = fmt.Errorf("%w: la bandeja destino está ocupada por otro producto", ErrConflict)
	ErrCapacityExceeded    = fmt.Errorf("%w: la cantidad supera la capacidad de la bandeja", ErrConflict)
	ErrSourceMismatch      = fmt.Errorf("%w: la bandeja origen no contiene el producto", ErrConflict)
	ErrProductInUse        = fmt.Errorf("%w: el producto tiene órdenes abiertas", ErrConflict)
	ErrPositionTaken       = fmt.Errorf("%w: ya existe un módulo en esa posición", ErrConflict)
)

// Transiciones de orden no permitidas.
var (
	ErrAlreadyCompleted = fmt.Errorf("%w: la orden ya está completada", ErrInvalidTransition)
	ErrAlreadyCancelled = fmt.Errorf("%w: la orden ya está cancelada", ErrInvalidTransition)
	ErrOrderCancelled   = fmt.Errorf("%w: la orden está cancelada", ErrInvalidTransition)
)
