package ledger

import (
	"context"

	"github.com/tu-usuario/barstock-api/internal/domain"
	"github.com/tu-usuario/barstock-api/internal/domain/entity"
	"github.com/tu-usuario/barstock-api/internal/domain/repository"
)

// StockQueryUseCase proyecciones de lectura derivadas del almacén:
// stock actual, historial de movimientos y vista de stock bajo.
// No tiene invariantes propios: solo refleja el estado confirmado.
type StockQueryUseCase struct {
	itemRepo  repository.ItemRepository
	barRepo   repository.BarRepository
	stockRepo repository.BarStockRepository
	movRepo   repository.StockMovementRepository
}

// NewStockQueryUseCase construye las vistas de consulta.
func NewStockQueryUseCase(
	itemRepo repository.ItemRepository,
	barRepo repository.BarRepository,
	stockRepo repository.BarStockRepository,
	movRepo repository.StockMovementRepository,
) *StockQueryUseCase {
	return &StockQueryUseCase{
		itemRepo:  itemRepo,
		barRepo:   barRepo,
		stockRepo: stockRepo,
		movRepo:   movRepo,
	}
}

// StockView stock actual de un artículo, global o en una barra.
type StockView struct {
	ItemID string
	BarID  string // vacío = stock global
	Item   *entity.Item
	Stock  *entity.BarStock // nil para stock global
}

// GetStock devuelve el stock actual. Con barID vacío devuelve el stock
// global del artículo; con barID, la fila (barra, artículo) — en cero si
// aún no fue referenciada, siempre que barra y artículo existan.
func (uc *StockQueryUseCase) GetStock(ctx context.Context, barID, itemID string) (*StockView, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	view := &StockView{ItemID: itemID, BarID: barID, Item: item}
	if barID == "" {
		return view, nil
	}
	bar, err := uc.barRepo.GetByID(barID)
	if err != nil {
		return nil, err
	}
	if bar == nil {
		return nil, domain.ErrBarNotFound
	}
	stock, err := uc.stockRepo.Get(barID, itemID)
	if err != nil {
		return nil, err
	}
	view.Stock = stock
	return view, nil
}

// ListMovements historial de movimientos, del más reciente al más antiguo.
// itemID vacío lista todos los artículos.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	if itemID != "" {
		item, err := uc.itemRepo.GetByID(itemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrItemNotFound
		}
	}
	return uc.movRepo.List(itemID, limit, offset)
}

// ListLowStockItems artículos activos con stock global bajo
// (current_stock <= min_stock_level), evaluado al momento de la lectura.
func (uc *StockQueryUseCase) ListLowStockItems(ctx context.Context) ([]*entity.Item, error) {
	return uc.itemRepo.ListLowStock()
}

// ListLowStockByBar filas (barra, artículo) con stock bajo; barID vacío
// considera todas las barras.
func (uc *StockQueryUseCase) ListLowStockByBar(ctx context.Context, barID string) ([]repository.LowStockRow, error) {
	if barID != "" {
		bar, err := uc.barRepo.GetByID(barID)
		if err != nil {
			return nil, err
		}
		if bar == nil {
			return nil, domain.ErrBarNotFound
		}
	}
	return uc.stockRepo.ListLowStock(barID)
}
