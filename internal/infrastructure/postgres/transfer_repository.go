package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/barstock-api/internal/domain/entity"
	"github.com/tu-usuario/barstock-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

const transferColumns = `id, source_bar_id, destination_bar_id, item_id, quantity, notes, transferred_by, status, failure_reason, created_at, completed_at`

// TransferRepo implementación sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste un traslado (completed dentro de la tx del motor;
// failed fuera de ella, como mejor esfuerzo).
func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	transferredBy := (*string)(nil)
	if transfer.TransferredBy != "" {
		transferredBy = &transfer.TransferredBy
	}
	failureReason := (*string)(nil)
	if transfer.FailureReason != "" {
		failureReason = &transfer.FailureReason
	}
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.SourceBarID, transfer.DestinationBarID, transfer.ItemID,
		transfer.Quantity, transfer.Notes, transferredBy, transfer.Status,
		failureReason, transfer.CreatedAt, transfer.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

// GetByID obtiene un traslado por ID.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	t, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// List traslados del más reciente al más antiguo.
func (r *TransferRepo) List(limit, offset int) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	var transferredBy, failureReason *string
	err := row.Scan(
		&t.ID, &t.SourceBarID, &t.DestinationBarID, &t.ItemID, &t.Quantity,
		&t.Notes, &transferredBy, &t.Status, &failureReason, &t.CreatedAt, &t.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if transferredBy != nil {
		t.TransferredBy = *transferredBy
	}
	if failureReason != nil {
		t.FailureReason = *failureReason
	}
	return &t, nil
}
