package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned on a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReference is returned when a foreign key points at nothing.
	ErrReference = errors.New("referenced record does not exist")
	// ErrStale means a conditional update found the row in another state.
	ErrStale = errors.New("record was modified concurrently")
	// ErrClosed means the row reached a terminal state and cannot move on.
	ErrClosed = errors.New("record is closed")
)

// mapError turns driver errors into the sentinels above.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicate
		case "23503":
			return ErrReference
		}
	}
	return err
}
