package postgres

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tu-usuario/barstock-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// classifyTxError traduce errores de PostgreSQL a errores de dominio:
//   - 40001 (serialization_failure) y 40P01 (deadlock_detected) son
//     reintentables -> ErrWriteConflict
//   - clase 08 (connection exception), timeouts y errores de red
//     -> ErrStorageUnavailable
//
// Los errores de dominio y el resto pasan sin tocar.
func classifyTxError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "40001" || pgErr.Code == "40P01":
			return domain.ErrWriteConflict
		case strings.HasPrefix(pgErr.Code, "08"):
			return domain.ErrStorageUnavailable
		}
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.ErrStorageUnavailable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrStorageUnavailable
	}
	return err
}
