package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for store implementations that are not Postgres-backed
// (in-memory fakes in tests). The predicates below recognize both these
// and the native pgx errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrExclusion = errors.New("exclusion constraint violation")
)

// pgExclusionViolation is the Postgres error code raised by the
// range-exclusion constraint on occupying bookings.
const pgExclusionViolation = "23P01"

// IsNotFound reports whether err means the referenced row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}

// IsExclusionViolation reports whether err is the store rejecting a write
// because it would create two overlapping occupying bookings. This is the
// lost half of the check-then-act race; callers translate it to the same
// conflict the pre-check produces.
func IsExclusionViolation(err error) bool {
	if errors.Is(err, ErrExclusion) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}
