package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/barstock-api/internal/domain/entity"
)

// LowStockRow fila de la vista de stock bajo por barra, con el nombre y
// la unidad del artículo para no obligar a un segundo round-trip.
type LowStockRow struct {
	BarID         string
	ItemID        string
	ItemName      string
	Unit          string
	CurrentStock  decimal.Decimal
	MinStockLevel decimal.Decimal
}

// BarStockRepository define el puerto para consultar/actualizar stock por barra+artículo.
// Usado dentro de transacciones para garantizar consistencia.
type BarStockRepository interface {
	// Get devuelve la fila de stock; si no existe, devuelve una fila en cero
	// con el nivel mínimo por defecto (creación por primera referencia).
	Get(barID, itemID string) (*entity.BarStock, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(barID, itemID string) (*entity.BarStock, error)
	Upsert(stock *entity.BarStock) error
	ListByBar(barID string, limit, offset int) ([]*entity.BarStock, error)
	// ListLowStock devuelve las filas con current_stock <= min_stock_level;
	// barID vacío considera todas las barras.
	ListLowStock(barID string) ([]LowStockRow, error)
}
