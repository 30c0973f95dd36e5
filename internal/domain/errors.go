package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrItemNotFound      = errors.New("artículo no encontrado")
	ErrBarNotFound       = errors.New("barra no encontrada")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrSameBarTransfer   = errors.New("barra origen y destino deben ser distintas")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")

	// ErrWriteConflict: dos operaciones concurrentes chocaron sobre la misma fila.
	// El motor lo reintenta internamente con un tope fijo antes de devolverlo.
	ErrWriteConflict = errors.New("conflicto de escritura, reintentar")

	// ErrStorageUnavailable: el almacén no respondió (conexión caída, timeout).
	// No hubo aplicación parcial; el caller puede reintentar.
	ErrStorageUnavailable = errors.New("almacenamiento no disponible")
)

// IsRetriable indica si el caller puede reintentar la operación sin riesgo
// de doble aplicación (nada fue escrito).
func IsRetriable(err error) bool {
	return errors.Is(err, ErrWriteConflict) || errors.Is(err, ErrStorageUnavailable)
}
