package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMinStockLevel nivel mínimo asignado a filas de stock creadas
// por primera referencia (ej. destino de un traslado sin fila previa).
var DefaultMinStockLevel = decimal.NewFromInt(5)

// BarStock representa el stock actual de un artículo en una barra.
// Existe exactamente una fila por par (barra, artículo); se crea en la
// primera referencia y se actualiza de ahí en adelante.
type BarStock struct {
	BarID         string
	ItemID        string
	CurrentStock  decimal.Decimal
	MinStockLevel decimal.Decimal
	UpdatedAt     time.Time
}

// IsLowStock evalúa el predicado de stock bajo al momento de la lectura.
func (s *BarStock) IsLowStock() bool {
	return s.CurrentStock.LessThanOrEqual(s.MinStockLevel)
}
