package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/barstock-api/internal/domain/entity"
	"github.com/tu-usuario/barstock-api/internal/domain/repository"
)

var _ repository.BarStockRepository = (*BarStockRepo)(nil)

// BarStockRepo implementación de BarStockRepository sobre PostgreSQL (usable con pool o tx).
type BarStockRepo struct {
	q Querier
}

// NewBarStockRepository construye el adaptador de stock por barra. Pasar pool o tx (Querier).
func NewBarStockRepository(q Querier) *BarStockRepo {
	return &BarStockRepo{q: q}
}

// Get obtiene el stock actual de un artículo en una barra. Si la fila no
// existe devuelve una en cero con el nivel mínimo por defecto (la fila se
// materializa recién en el primer Upsert).
func (r *BarStockRepo) Get(barID, itemID string) (*entity.BarStock, error) {
	query := `
		SELECT bar_id, item_id, current_stock, min_stock_level, updated_at
		FROM bar_stock WHERE bar_id = $1 AND item_id = $2`
	return r.scanRow(r.q.QueryRow(context.Background(), query, barID, itemID), barID, itemID, "get bar stock")
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *BarStockRepo) GetForUpdate(barID, itemID string) (*entity.BarStock, error) {
	query := `
		SELECT bar_id, item_id, current_stock, min_stock_level, updated_at
		FROM bar_stock WHERE bar_id = $1 AND item_id = $2
		FOR UPDATE`
	return r.scanRow(r.q.QueryRow(context.Background(), query, barID, itemID), barID, itemID, "get bar stock for update")
}

// Upsert inserta o actualiza la cantidad en stock (por barra y artículo).
func (r *BarStockRepo) Upsert(stock *entity.BarStock) error {
	query := `
		INSERT INTO bar_stock (bar_id, item_id, current_stock, min_stock_level, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (bar_id, item_id)
		DO UPDATE SET current_stock = EXCLUDED.current_stock, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		stock.BarID, stock.ItemID, stock.CurrentStock, stock.MinStockLevel,
	)
	if err != nil {
		return fmt.Errorf("upsert bar stock: %w", err)
	}
	return nil
}

// ListByBar lista las filas de stock de una barra.
func (r *BarStockRepo) ListByBar(barID string, limit, offset int) ([]*entity.BarStock, error) {
	query := `
		SELECT bar_id, item_id, current_stock, min_stock_level, updated_at
		FROM bar_stock WHERE bar_id = $1
		ORDER BY updated_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, barID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bar stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.BarStock
	for rows.Next() {
		var s entity.BarStock
		if err := rows.Scan(&s.BarID, &s.ItemID, &s.CurrentStock, &s.MinStockLevel, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bar stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ListLowStock filas con current_stock <= min_stock_level, con nombre y
// unidad del artículo. barID vacío considera todas las barras.
// Ordena por déficit descendente (mayor quiebre primero).
func (r *BarStockRepo) ListLowStock(barID string) ([]repository.LowStockRow, error) {
	query := `
		SELECT s.bar_id, s.item_id, i.name, i.unit, s.current_stock, s.min_stock_level
		FROM bar_stock s
		JOIN items i ON i.id = s.item_id
		WHERE i.is_active = true AND s.current_stock <= s.min_stock_level`
	args := []any{}
	if barID != "" {
		query += ` AND s.bar_id = $1`
		args = append(args, barID)
	}
	query += ` ORDER BY (s.min_stock_level - s.current_stock) DESC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.BarID, &row.ItemID, &row.ItemName, &row.Unit, &row.CurrentStock, &row.MinStockLevel); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

func (r *BarStockRepo) scanRow(row pgx.Row, barID, itemID, op string) (*entity.BarStock, error) {
	var s entity.BarStock
	err := row.Scan(&s.BarID, &s.ItemID, &s.CurrentStock, &s.MinStockLevel, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.BarStock{
				BarID:         barID,
				ItemID:        itemID,
				CurrentStock:  decimal.Zero,
				MinStockLevel: entity.DefaultMinStockLevel,
			}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}
