// file: internals/helpers/pg_error.go
package helper

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// pgSQLState reads the SQLSTATE from either driver (pgx via gorm/postgres, or lib/pq).
func pgSQLState(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), true
	}
	return "", false
}

func IsUniqueViolation(err error) bool {
	code, ok := pgSQLState(err)
	return ok && code == pgUniqueViolation
}

// MapPGError turns a constraint error into an HTTP status + message.
func MapPGError(err error) (int, string) {
	code, ok := pgSQLState(err)
	if ok {
		switch code {
		case pgUniqueViolation:
			return http.StatusConflict, "Duplicate data (unique violation)."
		case pgForeignKeyViolation:
			return http.StatusBadRequest, "Referenced data not found (FK violation)."
		case pgCheckViolation:
			return http.StatusBadRequest, "Invalid data (check violation)."
		}
	}
	return http.StatusInternalServerError, err.Error()
}
