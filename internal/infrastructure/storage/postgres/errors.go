package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"stockpilot/internal/core/apperror"
)

// SQLSTATE class 23: integrity constraint violation. Covers unique,
// foreign key, not null and check failures.
const integrityViolationClass = "23"

// TranslateError maps constraint violations raised by PostgreSQL to
// apperror.NewIntegrity so they reach clients as conflicts instead of
// opaque internal errors. Anything else is wrapped with op for context.
func TranslateError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, integrityViolationClass) {
		return apperror.NewIntegrity(err).
			WithDetail("constraint", pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}
