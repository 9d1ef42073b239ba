// Package postgres implements the Persistent Store on database/sql with the pgx driver.
package postgres

import (
	"airbook/internal/apperr"
	"airbook/internal/booking"
	"airbook/internal/company"
	"airbook/internal/flight"
	"airbook/internal/identity"
	"airbook/pkg/db"
	"database/sql"
	"errors"
)

type Store struct {
	db db.SQLExecutor
}

var (
	_ identity.Store = (*Store)(nil)
	_ company.Store  = (*Store)(nil)
	_ flight.Store   = (*Store)(nil)
	_ booking.Store  = (*Store)(nil)
)

func New(executor db.SQLExecutor) *Store {
	return &Store{db: executor}
}

// mapErr keeps typed errors and marks everything else as a retryable store failure.
func mapErr(err error, op string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, booking.ErrDuplicateCode) {
		return booking.ErrDuplicateCode
	}
	return apperr.Unavailable(err, op)
}

// notFoundOr converts sql.ErrNoRows into a NOT_FOUND error for what.
func notFoundOr(err error, op, what string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("%s %v not found", what, id)
	}
	return mapErr(err, op)
}

// expectOne turns a zero-row update into NOT_FOUND.
func expectOne(res sql.Result, op, what string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Unavailable(err, op)
	}
	if n == 0 {
		return apperr.NotFound("%s %v not found", what, id)
	}
	return nil
}
