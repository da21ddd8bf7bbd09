// internal/common/database/errors.go
// Maps postgres driver errors onto sentinel errors so callers can branch on
// error identity instead of matching message substrings.

package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"github.com/lib/pq"
)

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("row not found")

	// ErrConflict means an insert violated a uniqueness constraint (SQLSTATE 23505).
	ErrConflict = errors.New("uniqueness conflict")

	// ErrUnauthorized means the current role is not allowed to perform the
	// statement (SQLSTATE 42501, including row-level policy denials).
	ErrUnauthorized = errors.New("insufficient privileges")

	// ErrUnavailable means the database could not be reached; the operation is
	// safe to retry.
	ErrUnavailable = errors.New("database unavailable")
)

// MapError converts a driver error into one of the sentinel errors above.
// Unknown errors pass through unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if errors.Is(err, driver.ErrBadConn) {
		return ErrUnavailable
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505":
			return ErrConflict
		case pqErr.Code == "42501":
			return ErrUnauthorized
		case pqErr.Code.Class() == "08", pqErr.Code == "57P01":
			// Connection exceptions and admin shutdown are transient.
			return ErrUnavailable
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrUnavailable
	}

	return err
}

const (
	retryAttempts = 3
	retryBackoff  = 100 * time.Millisecond
)

// Retry runs fn up to three times, backing off briefly between attempts.
// Only ErrUnavailable failures are retried; every step in this codebase is
// idempotent at the statement level, so re-running is safe.
func Retry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err = MapError(fn())
		if err == nil || !errors.Is(err, ErrUnavailable) {
			return err
		}
	}
	return err
}
