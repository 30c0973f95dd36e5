package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/barstock-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del artículo (SELECT FOR UPDATE).
	// Usar solo dentro de una transacción.
	GetForUpdate(id string) (*entity.Item, error)
	Update(item *entity.Item) error
	UpdateStock(itemID string, newStock decimal.Decimal) error
	// UpdatePrices actualiza cost_per_unit y/o selling_price; un puntero nil
	// deja el campo como está.
	UpdatePrices(itemID string, costPerUnit, sellingPrice *decimal.Decimal) error
	List(limit, offset int, activeOnly bool) ([]*entity.Item, error)
	// ListLowStock devuelve los artículos activos con current_stock <= min_stock_level.
	ListLowStock() ([]*entity.Item, error)
}
