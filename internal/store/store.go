// Package store persists buyer profiles and wishlist entries in PostgreSQL.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile is the stored identity of a buyer.
type Profile struct {
	ID      uuid.UUID
	Name    string
	Email   string
	Company string
	Role    string
}

// ProfileStore defines the methods for reading and writing user profiles.
type ProfileStore interface {
	// FindProfileByID returns the profile of the user.
	// Returns ErrProfileNotFound if no profile exists with the given ID.
	FindProfileByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	// UpsertProfile creates the profile or overwrites its name, email and company.
	UpsertProfile(ctx context.Context, p Profile) error
}

// WishlistStore defines the methods for managing wishlist entries.
type WishlistStore interface {
	// ListByUser returns the product ids of the user's wishlist, oldest first.
	// Returns an empty slice if the wishlist is empty.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]string, error)

	// Insert adds an entry. Inserting an existing entry is not an error.
	Insert(ctx context.Context, userID uuid.UUID, productID string) error

	// Delete removes an entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, userID uuid.UUID, productID string) error
}
