// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors mapped from PostgreSQL constraint violations so handlers
// can translate them into user-facing responses.
var (
	// ErrRubricInUse is returned when deleting a rubric that listings
	// still reference. The FK is declared ON DELETE RESTRICT; the store
	// never cascades.
	ErrRubricInUse = errors.New("rubric has listings referencing it")

	// ErrDuplicateName is returned when a rubric name collides with an
	// existing one (rubric names are unique).
	ErrDuplicateName = errors.New("rubric name already exists")

	// ErrBadPattern is returned when PostgreSQL rejects a search keyword
	// as a regular expression. Go's regexp accepts some syntax that the
	// POSIX engine behind ~* does not.
	ErrBadPattern = errors.New("invalid search pattern")
)

// PostgreSQL error codes mapped to sentinels.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgInvalidRegexp       = "2201B"
)

// mapConstraintErr converts constraint-violation errors into the package
// sentinels and leaves everything else untouched.
func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgForeignKeyViolation:
		return ErrRubricInUse
	case pgUniqueViolation:
		return ErrDuplicateName
	}
	return err
}
