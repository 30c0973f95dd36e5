package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// bar_id vacío aplica el movimiento al stock global del artículo.
// Para type=adjustment, quantity es el nuevo nivel absoluto.
// cost_per_unit y selling_price solo se admiten con type=in.
type RegisterMovementRequest struct {
	ItemID       string           `json:"item_id"`
	BarID        string           `json:"bar_id,omitempty"`
	Type         string           `json:"type"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Notes        string           `json:"notes,omitempty"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit,omitempty"`
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
}

// MovementResponse asiento del libro de movimientos.
type MovementResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	BarID          string          `json:"bar_id,omitempty"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	ResultingStock decimal.Decimal `json:"resulting_stock"`
	Notes          string          `json:"notes,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ApplyMovementResponse respuesta de un movimiento aplicado.
type ApplyMovementResponse struct {
	NewStock decimal.Decimal  `json:"new_stock"`
	Movement MovementResponse `json:"movement"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	SourceBarID      string          `json:"source_bar_id"`
	DestinationBarID string          `json:"destination_bar_id"`
	ItemID           string          `json:"item_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	Notes            string          `json:"notes,omitempty"`
}

// TransferResponse traslado entre barras.
type TransferResponse struct {
	ID               string          `json:"id"`
	SourceBarID      string          `json:"source_bar_id"`
	DestinationBarID string          `json:"destination_bar_id"`
	ItemID           string          `json:"item_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	Notes            string          `json:"notes,omitempty"`
	TransferredBy    string          `json:"transferred_by,omitempty"`
	Status           string          `json:"status"`
	FailureReason    string          `json:"failure_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
}

// StockResponse stock actual, global o por barra.
type StockResponse struct {
	ItemID        string          `json:"item_id"`
	BarID         string          `json:"bar_id,omitempty"`
	ItemName      string          `json:"item_name"`
	Unit          string          `json:"unit"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	LowStock      bool            `json:"low_stock"`
}

// LowStockRowDTO fila de la vista de stock bajo por barra.
type LowStockRowDTO struct {
	BarID         string          `json:"bar_id"`
	ItemID        string          `json:"item_id"`
	ItemName      string          `json:"item_name"`
	Unit          string          `json:"unit"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
}
