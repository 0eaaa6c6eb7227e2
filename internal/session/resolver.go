package session

import (
	"context"
	"log/slog"

	"github.com/abgdnv/giftshop/internal/store"
	"github.com/abgdnv/giftshop/pkg/config"
	"github.com/abgdnv/giftshop/pkg/resilience"
	"github.com/google/uuid"
)

// ProfileReader is the profile lookup the resolver depends on.
type ProfileReader interface {
	FindProfileByID(ctx context.Context, id uuid.UUID) (*store.Profile, error)
}

// Resolver turns an authenticated identity into a User.
// It looks the profile up with bounded retries and falls back to the token identity.
type Resolver struct {
	profiles ProfileReader
	retry    config.RetryConfig
	logger   *slog.Logger
}

func NewResolver(profiles ProfileReader, retry config.RetryConfig, logger *slog.Logger) *Resolver {
	return &Resolver{profiles: profiles, retry: retry, logger: logger.With("component", "profile-resolver")}
}

// Resolve never fails: when every lookup attempt errors or finds nothing, the token identity is used.
func (r *Resolver) Resolve(ctx context.Context, id Identity) User {
	profile, err := resilience.Retry(ctx, r.retry, r.logger, func(ctx context.Context) (*store.Profile, error) {
		p, err := r.profiles.FindProfileByID(ctx, id.UserID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, store.ErrProfileNotFound
		}
		return p, nil
	})
	if err != nil {
		r.logger.WarnContext(ctx, "Profile lookup failed, using token identity", "user_id", id.UserID, "error", err)
		return TokenUser(id)
	}
	return profileUser(id, profile)
}

// TokenUser builds the minimal user from token fields.
func TokenUser(id Identity) User {
	return User{
		ID:      id.UserID,
		Name:    id.DisplayName(),
		Email:   id.Email,
		Company: DefaultCompany,
		Role:    RoleBuyer,
	}
}

func profileUser(id Identity, p *store.Profile) User {
	u := User{
		ID:      id.UserID,
		Name:    p.Name,
		Email:   p.Email,
		Company: p.Company,
		Role:    Role(p.Role),
	}
	if u.Name == "" {
		u.Name = id.DisplayName()
	}
	if u.Email == "" {
		u.Email = id.Email
	}
	if u.Company == "" {
		u.Company = DefaultCompany
	}
	if u.Role != RoleAdmin {
		u.Role = RoleBuyer
	}
	return u
}
