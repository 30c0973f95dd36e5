package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un traslado. pending es transitorio; completed y failed son terminales.
const (
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusFailed    = "failed"
)

// Transfer representa un traslado de stock entre dos barras.
// Un traslado completed implica: la barra origen bajó Quantity, la barra
// destino subió Quantity y existen dos movimientos ligados por Reference.
// Un traslado failed no deja cambios de stock en ninguna de las dos barras.
type Transfer struct {
	ID               string
	SourceBarID      string
	DestinationBarID string
	ItemID           string
	Quantity         decimal.Decimal
	Notes            string
	TransferredBy    string
	Status           string
	FailureReason    string
	CreatedAt        time.Time
	CompletedAt      *time.Time
}
