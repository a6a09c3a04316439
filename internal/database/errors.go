package database

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrRouteNotFound is returned when no route matches an id or token
	ErrRouteNotFound = errors.New("route not found")

	// ErrDriverNotFound is returned when no driver matches an id
	ErrDriverNotFound = errors.New("driver not found")

	// ErrDriverInUse is returned when a driver still has routes assigned
	ErrDriverInUse = errors.New("driver is assigned to routes")

	// ErrDuplicateShareToken is returned when a generated token collides
	// with one already stored
	ErrDuplicateShareToken = errors.New("share token already in use")
)

// pqUniqueViolation is the SQLSTATE for unique_violation
const pqUniqueViolation = "23505"

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// either supported driver.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	return false
}
