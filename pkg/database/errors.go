package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

var (
	// ErrNotFound is returned by find-by-field lookups that match no row.
	ErrNotFound = errors.New("record not found")
	// ErrConstraintViolation is returned when an insert collides with a unique index.
	ErrConstraintViolation = errors.New("constraint violation")
)

// ConstraintError names the unique constraint an insert collided with.
// It matches ErrConstraintViolation under errors.Is.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation on %s: %v", e.Constraint, e.Err)
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// Translate maps driver errors onto the store taxonomy: pgx.ErrNoRows becomes
// ErrNotFound and unique violations become *ConstraintError. Other errors pass through.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &ConstraintError{Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}

// ConstraintName returns the violated constraint name, or "" when err is not a constraint violation.
func ConstraintName(err error) string {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.Constraint
	}
	return ""
}
