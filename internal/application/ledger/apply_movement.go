package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/barstock-api/internal/domain"
	"github.com/tu-usuario/barstock-api/internal/domain/entity"
	"github.com/tu-usuario/barstock-api/internal/domain/repository"
)

// maxWriteRetries tope de reintentos internos ante ErrWriteConflict.
// Agotado el tope, el conflicto se devuelve al caller.
const maxWriteRetries = 3

// ApplyMovementUseCase aplica un movimiento de stock (in, out, adjustment)
// sobre un artículo, a nivel global o en una barra concreta, de forma
// transaccional: bloqueo de fila (SELECT FOR UPDATE), escritura del nuevo
// stock y asiento en el libro de movimientos como una sola unidad.
type ApplyMovementUseCase struct {
	txRunner TxRunner
	barRepo  repository.BarRepository
}

// NewApplyMovementUseCase construye el caso de uso.
func NewApplyMovementUseCase(txRunner TxRunner, barRepo repository.BarRepository) *ApplyMovementUseCase {
	return &ApplyMovementUseCase{txRunner: txRunner, barRepo: barRepo}
}

// MovementInput entrada para aplicar un movimiento.
// Para in/out, Quantity es un delta (> 0); para adjustment es el nuevo
// nivel absoluto (>= 0). BarID vacío opera sobre el stock global del
// artículo. CostPerUnit y SellingPrice solo se admiten en "in" y se
// aplican al artículo dentro de la misma transacción.
type MovementInput struct {
	ItemID       string
	BarID        string
	Type         string
	Quantity     decimal.Decimal
	Notes        string
	ActorID      string
	CostPerUnit  *decimal.Decimal
	SellingPrice *decimal.Decimal
}

// MovementResult resultado de un movimiento aplicado.
type MovementResult struct {
	NewStock decimal.Decimal
	Movement *entity.StockMovement
}

// Apply valida, ejecuta la transacción y devuelve el nuevo stock junto con
// el asiento creado. Los errores de validación se detectan antes de
// cualquier escritura; ErrWriteConflict se reintenta hasta maxWriteRetries.
func (uc *ApplyMovementUseCase) Apply(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if err := uc.validate(input); err != nil {
		return nil, err
	}

	if input.BarID != "" {
		bar, err := uc.barRepo.GetByID(input.BarID)
		if err != nil {
			return nil, err
		}
		if bar == nil {
			return nil, domain.ErrBarNotFound
		}
	}

	var result *MovementResult
	err := runWithRetry(ctx, uc.txRunner, func(
		itemRepo repository.ItemRepository,
		stockRepo repository.BarStockRepository,
		movRepo repository.StockMovementRepository,
		_ repository.TransferRepository,
	) error {
		r, err := applyInTx(itemRepo, stockRepo, movRepo, input, time.Now())
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *ApplyMovementUseCase) validate(input MovementInput) error {
	if input.ItemID == "" {
		return domain.ErrInvalidInput
	}
	if !entity.ValidMovementType(input.Type) {
		return domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.MovementTypeIn, entity.MovementTypeOut:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidQuantity
		}
	case entity.MovementTypeAdjustment:
		if input.Quantity.IsNegative() {
			return domain.ErrInvalidQuantity
		}
	}
	// Actualización de precios: solo en entradas, nunca negativa.
	if input.CostPerUnit != nil || input.SellingPrice != nil {
		if input.Type != entity.MovementTypeIn {
			return domain.ErrInvalidInput
		}
		if input.CostPerUnit != nil && input.CostPerUnit.IsNegative() {
			return domain.ErrInvalidInput
		}
		if input.SellingPrice != nil && input.SellingPrice.IsNegative() {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// applyInTx ejecuta el movimiento con los repositorios atados a la
// transacción del caller. Lo comparte el coordinador de traslados para que
// débito y crédito queden en la misma transacción que el registro del traslado.
func applyInTx(
	itemRepo repository.ItemRepository,
	stockRepo repository.BarStockRepository,
	movRepo repository.StockMovementRepository,
	input MovementInput,
	now time.Time,
) (*MovementResult, error) {
	// Bloquea la fila del artículo: stock global y precios viven ahí.
	item, err := itemRepo.GetForUpdate(input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}

	var current decimal.Decimal
	var barStock *entity.BarStock
	if input.BarID != "" {
		barStock, err = stockRepo.GetForUpdate(input.BarID, input.ItemID)
		if err != nil {
			return nil, err
		}
		current = barStock.CurrentStock
	} else {
		current = item.CurrentStock
	}

	newStock, err := computeNewStock(input.Type, current, input.Quantity)
	if err != nil {
		return nil, err
	}

	if input.BarID != "" {
		barStock.CurrentStock = newStock
		barStock.UpdatedAt = now
		if err := stockRepo.Upsert(barStock); err != nil {
			return nil, err
		}
	} else {
		if err := itemRepo.UpdateStock(input.ItemID, newStock); err != nil {
			return nil, err
		}
	}

	if input.Type == entity.MovementTypeIn && (input.CostPerUnit != nil || input.SellingPrice != nil) {
		if err := itemRepo.UpdatePrices(input.ItemID, input.CostPerUnit, input.SellingPrice); err != nil {
			return nil, err
		}
	}

	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		ItemID:         input.ItemID,
		BarID:          input.BarID,
		Type:           input.Type,
		Quantity:       signedQuantity(input.Type, input.Quantity),
		ResultingStock: newStock,
		Notes:          input.Notes,
		CreatedBy:      input.ActorID,
		CreatedAt:      now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return &MovementResult{NewStock: newStock, Movement: mov}, nil
}

// computeNewStock aplica la regla del tipo de movimiento.
// "out" es estricto: nunca recorta en silencio a cero.
func computeNewStock(movType string, current, quantity decimal.Decimal) (decimal.Decimal, error) {
	switch movType {
	case entity.MovementTypeIn:
		return current.Add(quantity), nil
	case entity.MovementTypeOut:
		if current.LessThan(quantity) {
			return decimal.Zero, domain.ErrInsufficientStock
		}
		return current.Sub(quantity), nil
	case entity.MovementTypeAdjustment:
		return quantity, nil
	}
	return decimal.Zero, domain.ErrInvalidInput
}

// signedQuantity cantidad a asentar: negativa para salidas, positiva para
// entradas; los ajustes guardan el nivel absoluto.
func signedQuantity(movType string, quantity decimal.Decimal) decimal.Decimal {
	if movType == entity.MovementTypeOut {
		return quantity.Neg()
	}
	return quantity
}

// runWithRetry ejecuta fn en transacción, reintentando solo ante
// ErrWriteConflict (serialización o deadlock detectado por el almacén).
// ErrStorageUnavailable y los errores de validación salen de inmediato.
func runWithRetry(ctx context.Context, txRunner TxRunner, fn func(
	repository.ItemRepository,
	repository.BarStockRepository,
	repository.StockMovementRepository,
	repository.TransferRepository,
) error) error {
	var err error
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		err = txRunner.Run(ctx, fn)
		if !errors.Is(err, domain.ErrWriteConflict) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}
