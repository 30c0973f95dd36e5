package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/barstock-api/internal/application/dto"
	"github.com/tu-usuario/barstock-api/internal/application/ledger"
	"github.com/tu-usuario/barstock-api/internal/domain"
	"github.com/tu-usuario/barstock-api/internal/domain/entity"
)

// LedgerHandler maneja las peticiones HTTP del libro de stock:
// movimientos, traslados y vistas de consulta (protegido).
type LedgerHandler struct {
	movementUC *ledger.ApplyMovementUseCase
	transferUC *ledger.TransferUseCase
	queryUC    *ledger.StockQueryUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(
	movementUC *ledger.ApplyMovementUseCase,
	transferUC *ledger.TransferUseCase,
	queryUC *ledger.StockQueryUseCase,
) *LedgerHandler {
	return &LedgerHandler{movementUC: movementUC, transferUC: transferUC, queryUC: queryUC}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, bar_id (opcional), type (in|out|adjustment), quantity, notes, precios (solo in)"
// @Success      201   {object}  dto.ApplyMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *LedgerHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.movementUC.Apply(c.Context(), ledger.MovementInput{
		ItemID:       in.ItemID,
		BarID:        in.BarID,
		Type:         in.Type,
		Quantity:     in.Quantity,
		Notes:        in.Notes,
		ActorID:      userID,
		CostPerUnit:  in.CostPerUnit,
		SellingPrice: in.SellingPrice,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ApplyMovementResponse{
		NewStock: result.NewStock,
		Movement: toMovementResponse(result.Movement),
	})
}

// Transfer godoc
// @Summary      Trasladar stock entre barras
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "source_bar_id, destination_bar_id, item_id, quantity, notes"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *LedgerHandler) Transfer(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	transfer, err := h.transferUC.Transfer(c.Context(), ledger.TransferInput{
		SourceBarID:      in.SourceBarID,
		DestinationBarID: in.DestinationBarID,
		ItemID:           in.ItemID,
		Quantity:         in.Quantity,
		Notes:            in.Notes,
		ActorID:          userID,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(transfer))
}

// GetStock godoc
// @Summary      Stock actual de un artículo (global o por barra)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  true   "ID del artículo"
// @Param        bar_id   query  string  false  "ID de la barra (vacío = stock global)"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *LedgerHandler) GetStock(c *fiber.Ctx) error {
	itemID := c.Query("item_id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id es requerido"})
	}
	view, err := h.queryUC.GetStock(c.Context(), c.Query("bar_id"), itemID)
	if err != nil {
		return ledgerError(c, err)
	}
	resp := dto.StockResponse{
		ItemID:   view.ItemID,
		BarID:    view.BarID,
		ItemName: view.Item.Name,
		Unit:     view.Item.Unit,
	}
	if view.Stock != nil {
		resp.CurrentStock = view.Stock.CurrentStock
		resp.MinStockLevel = view.Stock.MinStockLevel
		resp.LowStock = view.Stock.IsLowStock()
	} else {
		resp.CurrentStock = view.Item.CurrentStock
		resp.MinStockLevel = view.Item.MinStockLevel
		resp.LowStock = view.Item.IsLowStock()
	}
	return c.JSON(resp)
}

// ListMovements godoc
// @Summary      Historial de movimientos (más reciente primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "Filtrar por artículo"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *LedgerHandler) ListMovements(c *fiber.Ctx) error {
	limit, offset := dto.ClampPage(c.QueryInt("limit", dto.DefaultPageLimit), c.QueryInt("offset", 0))
	movements, err := h.queryUC.ListMovements(c.Context(), c.Query("item_id"), limit, offset)
	if err != nil {
		return ledgerError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// ListLowStock godoc
// @Summary      Vista de stock bajo (current_stock <= min_stock_level)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        bar_id  query  string  false  "Por barra; vacío = artículos con stock global bajo"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/low-stock [get]
func (h *LedgerHandler) ListLowStock(c *fiber.Ctx) error {
	barID := c.Query("bar_id")
	scope := c.Query("scope")
	if barID != "" || scope == "bars" {
		rows, err := h.queryUC.ListLowStockByBar(c.Context(), barID)
		if err != nil {
			return ledgerError(c, err)
		}
		out := make([]dto.LowStockRowDTO, 0, len(rows))
		for _, row := range rows {
			out = append(out, dto.LowStockRowDTO{
				BarID:         row.BarID,
				ItemID:        row.ItemID,
				ItemName:      row.ItemName,
				Unit:          row.Unit,
				CurrentStock:  row.CurrentStock,
				MinStockLevel: row.MinStockLevel,
			})
		}
		return c.JSON(fiber.Map{"total": len(out), "rows": out})
	}

	items, err := h.queryUC.ListLowStockItems(c.Context())
	if err != nil {
		return ledgerError(c, err)
	}
	out := make([]dto.StockResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.StockResponse{
			ItemID:        it.ID,
			ItemName:      it.Name,
			Unit:          it.Unit,
			CurrentStock:  it.CurrentStock,
			MinStockLevel: it.MinStockLevel,
			LowStock:      true,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// ledgerError mapea errores de dominio a códigos HTTP. El caller puede
// distinguir "rechazado, nada cambió" (4xx), "fallo transitorio,
// reintentar" (409 conflicto / 503 almacén) y "ok".
func ledgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "cantidad inválida"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrSameBarTransfer):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "SAME_BAR", Message: "barra origen y destino deben ser distintas"})
	case errors.Is(err, domain.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ITEM_NOT_FOUND", Message: "artículo no encontrado"})
	case errors.Is(err, domain.ErrBarNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "BAR_NOT_FOUND", Message: "barra no encontrada"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrWriteConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "WRITE_CONFLICT", Message: "conflicto de escritura, reintentar"})
	case errors.Is(err, domain.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORAGE_UNAVAILABLE", Message: "almacenamiento no disponible, reintentar"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ItemID:         m.ItemID,
		BarID:          m.BarID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		ResultingStock: m.ResultingStock,
		Notes:          m.Notes,
		Reference:      m.Reference,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	return dto.TransferResponse{
		ID:               t.ID,
		SourceBarID:      t.SourceBarID,
		DestinationBarID: t.DestinationBarID,
		ItemID:           t.ItemID,
		Quantity:         t.Quantity,
		Notes:            t.Notes,
		TransferredBy:    t.TransferredBy,
		Status:           t.Status,
		FailureReason:    t.FailureReason,
		CreatedAt:        t.CreatedAt,
		CompletedAt:      t.CompletedAt,
	}
}
