package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bibbank/cre-underwriting/internal/domain/port"
)

type scannable interface {
	Scan(dest ...any) error
}

// validIDs reports whether every id is a UUID. Lookups with malformed ids
// cannot match a row, so callers answer port.ErrNotFound without a round trip.
func validIDs(ids ...string) bool {
	for _, id := range ids {
		if uuid.Validate(id) != nil {
			return false
		}
	}
	return true
}

// scanErr maps pgx.ErrNoRows to port.ErrNotFound and wraps everything else.
func scanErr(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return port.ErrNotFound
	}
	return fmt.Errorf("scan %s: %w", what, err)
}
