package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Gunvolt24/order_admission/internal/domain"
)

// Коды SQLSTATE, при которых резервирование стоит повторить.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// mapReservationError - конкурентные ошибки Postgres превращаются в
// domain.ErrReservationConflict, остальные оборачиваются с контекстом операции.
func mapReservationError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%s: %w (sqlstate %s)", op, domain.ErrReservationConflict, pgErr.Code)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
