package dto

// Límites de paginación de los listados (productos, órdenes).
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest paginación recibida por query string.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// Normalize deja Limit en [1, MaxPageLimit] y Offset no negativo.
func (p *PageRequest) Normalize() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	p.Offset = max(p.Offset, 0)
}

// PageResponse página devuelta junto a los items.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de todas las respuestas de error: Code es estable para el cliente
// (ej. TRAY_OCCUPIED) y Message es legible para el operador.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
