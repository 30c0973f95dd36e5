package ledger

import (
	"context"

	"github.com/tu-usuario/barstock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que leer-validar-escribir-asentar
// sea una unidad atómica y aislada para el motor del libro de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		stockRepo repository.BarStockRepository,
		movRepo repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
	) error) error
}
