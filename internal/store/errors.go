package store

import (
	"database/sql"
	"errors"
	"strings"
)

// Error taxonomy. Callers branch with errors.Is — the MCP tool layer
// turns these into user-facing messages, and anything not matching a
// sentinel is an unexpected internal failure.
var (
	// ErrInvalidArgument marks caller mistakes: unknown entity types,
	// empty ids, self-dependencies. Never worth retrying.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict marks a uniqueness violation, e.g. creating a link
	// that already exists. The existing row is left untouched.
	ErrConflict = errors.New("already exists")

	// ErrNotFound marks a missing target for a fetch or delete.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable marks a connection or transaction level failure.
	// Safe to retry with backoff.
	ErrUnavailable = errors.New("store unavailable")
)

// wrapStoreErr maps low-level database failures onto the taxonomy.
// Connection-shaped errors become ErrUnavailable; everything else
// passes through unchanged and surfaces as an internal failure.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return errors.Join(ErrUnavailable, err)
	}
	msg := err.Error()
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "unable to open database") {
		return errors.Join(ErrUnavailable, err)
	}
	return err
}
