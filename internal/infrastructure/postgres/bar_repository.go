package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/barstock-api/internal/domain"
	"github.com/tu-usuario/barstock-api/internal/domain/entity"
	"github.com/tu-usuario/barstock-api/internal/domain/repository"
)

var _ repository.BarRepository = (*BarRepo)(nil)

// BarRepo implementación del puerto BarRepository sobre PostgreSQL.
type BarRepo struct {
	q Querier
}

// NewBarRepository construye el adaptador de persistencia para barras.
func NewBarRepository(q Querier) *BarRepo {
	return &BarRepo{q: q}
}

// Create persiste una nueva barra.
func (r *BarRepo) Create(bar *entity.Bar) error {
	query := `
		INSERT INTO bars (id, name, location, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		bar.ID, bar.Name, bar.Location, bar.IsActive, bar.CreatedAt, bar.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bar: %w", err)
	}
	return nil
}

// GetByID obtiene una barra por ID.
func (r *BarRepo) GetByID(id string) (*entity.Bar, error) {
	query := `
		SELECT id, name, location, is_active, created_at, updated_at
		FROM bars WHERE id = $1`
	var b entity.Bar
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.Name, &b.Location, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bar: %w", err)
	}
	return &b, nil
}

// Update actualiza una barra existente.
func (r *BarRepo) Update(bar *entity.Bar) error {
	query := `
		UPDATE bars
		SET name = $2, location = $3, is_active = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		bar.ID, bar.Name, bar.Location, bar.IsActive, bar.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bar: %w", err)
	}
	return nil
}

// List lista barras con paginación.
func (r *BarRepo) List(limit, offset int) ([]*entity.Bar, error) {
	query := `
		SELECT id, name, location, is_active, created_at, updated_at
		FROM bars ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bars: %w", err)
	}
	defer rows.Close()
	var list []*entity.Bar
	for rows.Next() {
		var b entity.Bar
		if err := rows.Scan(&b.ID, &b.Name, &b.Location, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
