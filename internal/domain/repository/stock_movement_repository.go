package repository

import "github.com/tu-usuario/barstock-api/internal/domain/entity"

// StockMovementRepository define el puerto de persistencia para el libro
// de movimientos. Solo inserta y lee: los asientos nunca se modifican.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// List devuelve movimientos del más reciente al más antiguo.
	// itemID vacío lista todos los artículos.
	List(itemID string, limit, offset int) ([]*entity.StockMovement, error)
}
