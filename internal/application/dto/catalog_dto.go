package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name          string           `json:"name"`
	Unit          string           `json:"unit"`
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	CostPerUnit   *decimal.Decimal `json:"cost_per_unit,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
}

// UpdateItemRequest body para PUT /api/items/:id (campos opcionales).
// El stock no se toca por aquí: todo cambio de stock pasa por el libro de movimientos.
type UpdateItemRequest struct {
	Name          *string          `json:"name,omitempty"`
	Unit          *string          `json:"unit,omitempty"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

// ItemResponse artículo del catálogo.
type ItemResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Unit          string           `json:"unit"`
	CurrentStock  decimal.Decimal  `json:"current_stock"`
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	CostPerUnit   *decimal.Decimal `json:"cost_per_unit,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ItemListResponse listado paginado de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateBarRequest body para POST /api/bars.
type CreateBarRequest struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// UpdateBarRequest body para PUT /api/bars/:id (campos opcionales).
type UpdateBarRequest struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// BarResponse barra.
type BarResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BarListResponse listado paginado de barras.
type BarListResponse struct {
	Items []BarResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}
