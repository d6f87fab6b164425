package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgErr extracts the PostgreSQL error, if any.
func pgErr(err error) (*pgconn.PgError, bool) {
	var e *pgconn.PgError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// isUniqueViolation reports whether err is a unique-constraint violation,
// optionally restricted to a named constraint.
func isUniqueViolation(err error, constraint string) bool {
	e, ok := pgErr(err)
	if !ok || e.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || e.ConstraintName == constraint
}

// isExclusionViolation reports whether err is an exclusion-constraint
// violation (used by the membership-assignment overlap constraint).
func isExclusionViolation(err error) bool {
	e, ok := pgErr(err)
	return ok && e.Code == pgerrcode.ExclusionViolation
}

// fkConstraint returns the violated foreign-key constraint name, if err
// is a foreign-key violation.
func fkConstraint(err error) (string, bool) {
	e, ok := pgErr(err)
	if !ok || e.Code != pgerrcode.ForeignKeyViolation {
		return "", false
	}
	return e.ConstraintName, true
}
