// Package repository defines error types that are reused across the
// data access layer. These sentinel values allow higher layers such as
// the service and the handlers to distinguish expected failures from
// infrastructure errors. ErrConflict signals that an insert violated the
// unique constraint on a café name; ErrCafeNotFound signals that the
// target row does not exist.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrConflict is returned when an insert would duplicate a unique
// column. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrCafeNotFound is returned when a café cannot be found in the DB.
var ErrCafeNotFound = errors.New("cafe not found")

// isDuplicateKey reports whether err is a unique-constraint violation
// raised by any of the supported drivers.
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// sqlite reports SQLITE_CONSTRAINT_UNIQUE only through the message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
