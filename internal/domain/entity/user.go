package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"    // administra topología y usuarios
	RoleOperator = "operator" // mueve stock y despacha órdenes
	RoleViewer   = "viewer"   // solo lectura
)

// ValidRole indica si el rol es uno de los conocidos.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleOperator || role == RoleViewer
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
