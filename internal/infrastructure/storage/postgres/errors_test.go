package postgres

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/apperror"
)

func TestTranslateError_ConstraintViolations(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"unique violation", "23505"},
		{"foreign key violation", "23503"},
		{"not null violation", "23502"},
		{"check violation", "23514"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: tt.code, ConstraintName: "stock_additions_product_id_fkey"}
			err := TranslateError("insert stock_additions", fmt.Errorf("exec: %w", pgErr))

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeIntegrity, appErr.Code)
			assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
			assert.Equal(t, "stock_additions_product_id_fkey", appErr.Details["constraint"])
			assert.True(t, errors.Is(err, pgErr))
		})
	}
}

func TestTranslateError_OtherErrors(t *testing.T) {
	// Serialization failure is class 40, not an integrity problem.
	pgErr := &pgconn.PgError{Code: "40001"}
	err := TranslateError("update stock_reconciliations", pgErr)
	assert.False(t, apperror.IsAppError(err))
	assert.True(t, errors.Is(err, pgErr))
	assert.Contains(t, err.Error(), "update stock_reconciliations")

	plain := errors.New("connection reset")
	err = TranslateError("insert audit_logs", plain)
	assert.False(t, apperror.IsAppError(err))
	assert.True(t, errors.Is(err, plain))
}
