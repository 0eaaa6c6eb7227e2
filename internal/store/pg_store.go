package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	findProfileByID = `SELECT id, name, email, company, role FROM profiles WHERE id = $1`
	upsertProfile   = `INSERT INTO profiles (id, name, email, company, role)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, company = EXCLUDED.company, updated_at = NOW()`
	listWishlist   = `SELECT product_id FROM wishlist WHERE user_id = $1 ORDER BY created_at, product_id`
	insertWishlist = `INSERT INTO wishlist (user_id, product_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	deleteWishlist = `DELETE FROM wishlist WHERE user_id = $1 AND product_id = $2`
)

// PgStore implements ProfileStore and WishlistStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of PgStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindProfileByID retrieves a profile by its unique identifier.
// Returns ErrProfileNotFound if no profile exists with the given ID.
func (p *PgStore) FindProfileByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var profile Profile
	err := p.db.QueryRow(ctx, findProfileByID, id).
		Scan(&profile.ID, &profile.Name, &profile.Email, &profile.Company, &profile.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile by ID: %w", err)
	}
	return &profile, nil
}

// UpsertProfile creates the profile or overwrites its mutable fields. The role of an existing profile is kept.
func (p *PgStore) UpsertProfile(ctx context.Context, profile Profile) error {
	role := profile.Role
	if role == "" {
		role = "buyer"
	}
	_, err := p.db.Exec(ctx, upsertProfile, profile.ID, profile.Name, profile.Email, profile.Company, role)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// ListByUser retrieves the wishlist product ids of a user.
// It returns a slice, which may be empty if the wishlist is empty.
func (p *PgStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := p.db.Query(ctx, listWishlist, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan wishlist: %w", err)
	}
	return ids, nil
}

// Insert adds a product to the user's wishlist.
func (p *PgStore) Insert(ctx context.Context, userID uuid.UUID, productID string) error {
	if _, err := p.db.Exec(ctx, insertWishlist, userID, productID); err != nil {
		return fmt.Errorf("failed to insert wishlist entry: %w", err)
	}
	return nil
}

// Delete removes a product from the user's wishlist.
func (p *PgStore) Delete(ctx context.Context, userID uuid.UUID, productID string) error {
	if _, err := p.db.Exec(ctx, deleteWishlist, userID, productID); err != nil {
		return fmt.Errorf("failed to delete wishlist entry: %w", err)
	}
	return nil
}
