package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/barstock-api/internal/domain"
	"github.com/tu-usuario/barstock-api/internal/domain/entity"
	"github.com/tu-usuario/barstock-api/internal/domain/repository"
)

// TransferUseCase coordina un traslado de stock entre dos barras:
// débito en origen (política estricta de stock insuficiente), crédito en
// destino (creando la fila si no existe) y registro del traslado, todo en
// una sola transacción. Si la transacción falla, el stock queda intacto en
// ambas barras y se asienta un traslado failed con el motivo.
type TransferUseCase struct {
	txRunner     TxRunner
	barRepo      repository.BarRepository
	itemRepo     repository.ItemRepository
	transferRepo repository.TransferRepository // atado al pool: asienta traslados failed fuera de la tx revertida
}

// NewTransferUseCase construye el coordinador.
func NewTransferUseCase(
	txRunner TxRunner,
	barRepo repository.BarRepository,
	itemRepo repository.ItemRepository,
	transferRepo repository.TransferRepository,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		barRepo:      barRepo,
		itemRepo:     itemRepo,
		transferRepo: transferRepo,
	}
}

// TransferInput entrada para un traslado entre barras.
type TransferInput struct {
	SourceBarID      string
	DestinationBarID string
	ItemID           string
	Quantity         decimal.Decimal
	Notes            string
	ActorID          string
}

// Transfer ejecuta el traslado. Las precondiciones se comprueban en orden y
// la primera que falla aborta sin escribir nada. No es idempotente: cada
// llamada crea un traslado nuevo.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*entity.Transfer, error) {
	if input.SourceBarID == "" || input.DestinationBarID == "" || input.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.SourceBarID == input.DestinationBarID {
		return nil, domain.ErrSameBarTransfer
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	// Barras y artículo se validan fuera de la transacción para fallar
	// rápido; las barras no se borran físicamente, y el artículo se
	// revalida dentro de la tx ya con su fila bloqueada.
	source, err := uc.barRepo.GetByID(input.SourceBarID)
	if err != nil {
		return nil, err
	}
	destination, err := uc.barRepo.GetByID(input.DestinationBarID)
	if err != nil {
		return nil, err
	}
	if source == nil || destination == nil {
		return nil, domain.ErrBarNotFound
	}
	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}

	now := time.Now()
	transfer := &entity.Transfer{
		ID:               uuid.New().String(),
		SourceBarID:      input.SourceBarID,
		DestinationBarID: input.DestinationBarID,
		ItemID:           input.ItemID,
		Quantity:         input.Quantity,
		Notes:            input.Notes,
		TransferredBy:    input.ActorID,
		Status:           entity.TransferStatusPending,
		CreatedAt:        now,
	}

	err = runWithRetry(ctx, uc.txRunner, func(
		itemRepo repository.ItemRepository,
		stockRepo repository.BarStockRepository,
		movRepo repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
	) error {
		return uc.doTransfer(itemRepo, stockRepo, movRepo, transferRepo, transfer, input, time.Now())
	})
	if err != nil {
		uc.recordFailure(transfer, err)
		return nil, err
	}
	return transfer, nil
}

// doTransfer cuerpo transaccional: débito, crédito y registro del traslado.
func (uc *TransferUseCase) doTransfer(
	itemRepo repository.ItemRepository,
	stockRepo repository.BarStockRepository,
	movRepo repository.StockMovementRepository,
	transferRepo repository.TransferRepository,
	transfer *entity.Transfer,
	input TransferInput,
	now time.Time,
) error {
	// Bloquea primero la fila del artículo: es el candado común de todas
	// las operaciones sobre él. Una fila de stock inexistente no se puede
	// bloquear (FOR UPDATE sin fila no retiene nada); sin este candado,
	// dos créditos concurrentes hacia un destino sin fila leerían ambos
	// cero y el segundo pisaría al primero. De paso revalida el artículo
	// dentro de la transacción.
	item, err := itemRepo.GetForUpdate(input.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrItemNotFound
	}

	origin, err := stockRepo.GetForUpdate(input.SourceBarID, input.ItemID)
	if err != nil {
		return err
	}
	if origin.CurrentStock.LessThan(input.Quantity) {
		return domain.ErrInsufficientStock
	}
	dest, err := stockRepo.GetForUpdate(input.DestinationBarID, input.ItemID)
	if err != nil {
		return err
	}

	origin.CurrentStock = origin.CurrentStock.Sub(input.Quantity)
	origin.UpdatedAt = now
	if err := stockRepo.Upsert(origin); err != nil {
		return err
	}
	// Si la fila destino no existía, el repositorio la devuelve en cero con
	// el nivel mínimo por defecto y este Upsert la crea.
	dest.CurrentStock = dest.CurrentStock.Add(input.Quantity)
	dest.UpdatedAt = now
	if err := stockRepo.Upsert(dest); err != nil {
		return err
	}

	outMov := &entity.StockMovement{
		ID:             uuid.New().String(),
		ItemID:         input.ItemID,
		BarID:          input.SourceBarID,
		Type:           entity.MovementTypeOut,
		Quantity:       input.Quantity.Neg(),
		ResultingStock: origin.CurrentStock,
		Notes:          input.Notes,
		Reference:      transfer.ID,
		CreatedBy:      input.ActorID,
		CreatedAt:      now,
	}
	if err := movRepo.Create(outMov); err != nil {
		return err
	}
	inMov := &entity.StockMovement{
		ID:             uuid.New().String(),
		ItemID:         input.ItemID,
		BarID:          input.DestinationBarID,
		Type:           entity.MovementTypeIn,
		Quantity:       input.Quantity,
		ResultingStock: dest.CurrentStock,
		Notes:          input.Notes,
		Reference:      transfer.ID,
		CreatedBy:      input.ActorID,
		CreatedAt:      now,
	}
	if err := movRepo.Create(inMov); err != nil {
		return err
	}

	completedAt := now
	transfer.Status = entity.TransferStatusCompleted
	transfer.CompletedAt = &completedAt
	return transferRepo.Create(transfer)
}

// recordFailure asienta el traslado como failed fuera de la transacción
// revertida. Mejor esfuerzo: si el almacén no está disponible no hay dónde
// asentarlo, y un fallo secundario se registra en el log sin ocultar el
// error original.
func (uc *TransferUseCase) recordFailure(transfer *entity.Transfer, cause error) {
	if errors.Is(cause, domain.ErrStorageUnavailable) {
		return
	}
	transfer.Status = entity.TransferStatusFailed
	transfer.FailureReason = cause.Error()
	transfer.CompletedAt = nil
	if err := uc.transferRepo.Create(transfer); err != nil {
		log.Warn().Err(err).
			Str("transfer_id", transfer.ID).
			Str("cause", cause.Error()).
			Msg("no se pudo asentar el traslado failed")
	}
}
