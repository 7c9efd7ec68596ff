package models

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ErrCategoryNotFound is returned when a category is not found.
var ErrCategoryNotFound = errors.New("category not found")

// ErrRequestNotFound is returned when a request is not found.
var ErrRequestNotFound = errors.New("request not found")

// Postgres constraint violation classes surfaced by the store.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// GenericStoreMessage is shown when a store error carries no usable detail.
const GenericStoreMessage = "something went wrong, please try again"

// constraintCode extracts the SQLSTATE code from a postgres error. The gorm
// postgres driver surfaces pgx errors; pq errors are recognized as well for
// callers running the repositories over a pq-backed connection.
func constraintCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// StoreErrorMessage maps a store error to a human-readable message.
// Known constraint codes get fixed messages; unknown codes fall back to the
// store's raw message, then to a generic string.
func StoreErrorMessage(err error) string {
	switch constraintCode(err) {
	case pgUniqueViolation:
		return "a record with this value already exists"
	case pgForeignKeyViolation:
		return "the referenced record does not exist"
	case pgNotNullViolation:
		return "a required field is missing"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Message != "" {
		return pgErr.Message
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Message != "" {
		return pqErr.Message
	}
	return GenericStoreMessage
}

// StoreErrorStatus picks the HTTP status for a store error: 409 for unique
// conflicts, 400 for broken references and missing fields, 500 otherwise.
func StoreErrorStatus(err error) int {
	switch constraintCode(err) {
	case pgUniqueViolation:
		return 409
	case pgForeignKeyViolation, pgNotNullViolation:
		return 400
	}
	return 500
}
