package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIn         = "in"         // entrada
	MovementTypeOut        = "out"        // salida
	MovementTypeAdjustment = "adjustment" // ajuste a nivel absoluto
)

// ValidMovementType valida el tipo recibido desde la capa de presentación.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment:
		return true
	}
	return false
}

// StockMovement representa un asiento inmutable del libro de stock.
// Quantity es positiva para "in", negativa para "out"; para "adjustment"
// guarda el nuevo nivel absoluto. ResultingStock es la foto del stock
// después de aplicar el movimiento, suficiente junto con Quantity para
// reconstruir el historial. Nunca se actualiza ni se borra.
type StockMovement struct {
	ID             string
	ItemID         string
	BarID          string // vacío = movimiento sobre el stock global del artículo
	Type           string
	Quantity       decimal.Decimal
	ResultingStock decimal.Decimal
	Notes          string
	Reference      string // ID del traslado cuando el movimiento es parte de uno
	CreatedBy      string // actor opaco (UserID del proveedor de identidad)
	CreatedAt      time.Time
}
