package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del catálogo de inventario.
// CurrentStock es el stock global del artículo; el stock por barra
// se maneja en BarStock. CostPerUnit y SellingPrice son opcionales
// y solo se actualizan en entradas de stock (movimiento "in").
type Item struct {
	ID            string
	Name          string
	Unit          string // botella, litro, unidad, etc.
	CurrentStock  decimal.Decimal
	MinStockLevel decimal.Decimal
	CostPerUnit   *decimal.Decimal
	SellingPrice  *decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock evalúa el predicado de stock bajo al momento de la lectura.
func (i *Item) IsLowStock() bool {
	return i.CurrentStock.LessThanOrEqual(i.MinStockLevel)
}
