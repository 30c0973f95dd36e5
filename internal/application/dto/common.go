package dto

// Límites de paginación de todos los listados de la API.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ClampPage normaliza limit y offset: un limit fuera de (0, MaxPageLimit]
// vuelve al default y un offset negativo a cero. Los handlers lo aplican
// antes de tocar los casos de uso.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// PageResponse metadatos de página que acompañan a los listados.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error uniforme de la API. Code es estable para
// que los clientes decidan por código y no por el texto del mensaje.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
