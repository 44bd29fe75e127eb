package postgres

import (
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"tienda/internal/errors"
)

// PostgreSQL SQLSTATE codes the repositories map to domain errors.
const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
	pgCheckViolation   = "23514"

	pgStringDataRightTruncation = "22001"
	pgNumericValueOutOfRange    = "22003"
)

func pgErrorCode(err error) string {
	if pgErr, ok := errors.AsType[*pgconn.PgError](err); ok {
		return pgErr.Code
	}

	return ""
}

// isUniqueConstraintViolation reports a duplicate key, either as the raw pgx
// error or as the translated GORM sentinel.
func isUniqueConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	return pgErrorCode(err) == pgUniqueViolation
}

func isNotNullConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	return pgErrorCode(err) == pgNotNullViolation
}

// isValueOutOfRange reports a value the column type cannot hold: a string
// longer than its VARCHAR or a number beyond its numeric type.
func isValueOutOfRange(err error) bool {
	if err == nil {
		return false
	}

	switch pgErrorCode(err) {
	case pgStringDataRightTruncation, pgNumericValueOutOfRange:
		return true
	default:
		return false
	}
}

func isCheckConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}

	return pgErrorCode(err) == pgCheckViolation
}
