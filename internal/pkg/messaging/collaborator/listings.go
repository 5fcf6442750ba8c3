package collaborator

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ListingDirectory resolves listing references supplied as conversation
// context. The check is best-effort: an unavailable directory is not a hard
// failure, only a definitively unknown listing is.
type ListingDirectory interface {
	Exists(ctx context.Context, listingID string) (bool, error)
}

// PgListingDirectory checks listing ids against the marketplace listings
// table, which lives in the same database as the messaging schema.
type PgListingDirectory struct {
	pool *pgxpool.Pool
}

func NewPgListingDirectory(pool *pgxpool.Pool) *PgListingDirectory {
	return &PgListingDirectory{pool: pool}
}

var _ ListingDirectory = (*PgListingDirectory)(nil)

func (d *PgListingDirectory) Exists(ctx context.Context, listingID string) (bool, error) {
	if d == nil || d.pool == nil {
		return false, errors.New("PgListingDirectory: nil pool")
	}
	var exists bool
	err := d.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM listings WHERE id::text = $1)",
		listingID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
