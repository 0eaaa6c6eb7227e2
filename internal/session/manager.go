package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abgdnv/giftshop/internal/catalog"
	"github.com/abgdnv/giftshop/internal/store"
	"github.com/abgdnv/giftshop/internal/wishlist"
	"github.com/abgdnv/giftshop/pkg/config"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProfileWriter stores the profile of a new account.
type ProfileWriter interface {
	UpsertProfile(ctx context.Context, p store.Profile) error
}

type ProfileStore interface {
	ProfileReader
	ProfileWriter
}

// Options tune the manager's remote call bounds.
type Options struct {
	RestoreTimeout  time.Duration
	WishlistTimeout time.Duration
	IdleTimeout     time.Duration
	ProfileRetry    config.RetryConfig
}

// Manager creates sessions and drives their sign-in lifecycle against the AuthProvider.
type Manager struct {
	catalog   *catalog.Catalog
	provider  AuthProvider
	resolver  *Resolver
	profiles  ProfileWriter
	wishlists wishlist.Store
	validate  *validator.Validate
	opts      Options
	logger    *slog.Logger
	now       func() time.Time

	mu          sync.RWMutex
	sessions    map[uuid.UUID]*Session
	unsubscribe func()
}

// NewManager wires a manager and subscribes it to provider auth events.
func NewManager(c *catalog.Catalog, provider AuthProvider, profiles ProfileStore, wishlists wishlist.Store, opts Options, logger *slog.Logger) *Manager {
	m := &Manager{
		catalog:   c,
		provider:  provider,
		resolver:  NewResolver(profiles, opts.ProfileRetry, logger),
		profiles:  profiles,
		wishlists: wishlists,
		validate:  validator.New(),
		opts:      opts,
		logger:    logger.With("component", "session-manager"),
		now:       time.Now,
		sessions:  make(map[uuid.UUID]*Session),
	}
	m.unsubscribe = provider.Subscribe(m.handleEvent)
	return m
}

// Create starts a new session. A non-empty accessToken is restored within the restore ceiling;
// a failed or slow restore yields a signed-out session, never an error.
func (m *Manager) Create(ctx context.Context, accessToken string) *Session {
	s := newSession(m.catalog, wishlist.NewSynchronizer(m.wishlists, m.opts.WishlistTimeout, m.logger), NewFlow(m.validate), m.now())
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log := m.logger.With("session_id", s.ID)
	log.InfoContext(ctx, "Session created")
	if accessToken == "" {
		return s
	}

	as, err := Restore(ctx, m.provider, accessToken, m.opts.RestoreTimeout, m.logger)
	if err != nil {
		log.WarnContext(ctx, "Session not restored", "error", err)
		return s
	}
	m.establish(ctx, s, as)
	log.InfoContext(ctx, "Session restored", "user_id", as.Identity.UserID)
	return s
}

// Get returns the session and marks it as used.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.touch(m.now())
	return s, nil
}

// Delete ends the session locally. The cart is discarded.
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.clearAuth()
	return nil
}

// SignIn submits the sign-in form of the session.
func (m *Manager) SignIn(ctx context.Context, id uuid.UUID, form Form) (*User, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	err = s.flow.Submit(ctx, ModeSignIn, form, func(ctx context.Context, form Form) error {
		as, err := m.provider.SignIn(ctx, form.Email, form.Password)
		if err != nil {
			return err
		}
		m.establish(ctx, s, as)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.User(), nil
}

// SignUp submits the sign-up form of the session. Mismatching passwords fail before any remote call.
func (m *Manager) SignUp(ctx context.Context, id uuid.UUID, form Form) (*User, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	err = s.flow.Submit(ctx, ModeSignUp, form, func(ctx context.Context, form Form) error {
		as, err := m.provider.SignUp(ctx, form.Email, form.Password, Metadata{Username: form.Username})
		if err != nil {
			return err
		}
		if as.Identity.Name == "" {
			as.Identity.Name = form.Username
		}
		profile := store.Profile{
			ID:      as.Identity.UserID,
			Name:    as.Identity.DisplayName(),
			Email:   as.Identity.Email,
			Company: DefaultCompany,
			Role:    string(RoleBuyer),
		}
		if err := m.profiles.UpsertProfile(ctx, profile); err != nil {
			m.logger.WarnContext(ctx, "Failed to store profile for new account", "user_id", profile.ID, "error", err)
		}
		m.establish(ctx, s, as)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.User(), nil
}

// establish resolves the profile, stores the user on the session and loads the wishlist.
func (m *Manager) establish(ctx context.Context, s *Session, as *AuthSession) {
	user := m.resolver.Resolve(ctx, as.Identity)
	s.setAuth(user, as.Token)
	if err := s.wishlist.SignIn(ctx, user.ID); err != nil {
		m.logger.WarnContext(ctx, "Signed in without wishlist", "session_id", s.ID, "error", err)
	}
}

// SignOut clears the session's user and wishlist, then revokes the token at the provider.
// A provider failure is logged; the session is signed out locally regardless.
func (m *Manager) SignOut(ctx context.Context, id uuid.UUID) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	if _, ok := s.userID(); !ok {
		return nil
	}
	token := s.clearAuth()
	if err := m.provider.SignOut(ctx, token); err != nil {
		m.logger.WarnContext(ctx, "Provider sign-out failed", "session_id", s.ID, "error", err)
	}
	return nil
}

// Refresh exchanges the session's refresh token for a new token pair.
// A rejected refresh signs the session out.
func (m *Manager) Refresh(ctx context.Context, id uuid.UUID) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	token, ok := s.currentToken()
	if !ok {
		return ErrNotSignedIn
	}
	as, err := m.provider.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.clearAuth()
		}
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	s.setToken(as.Token)
	return nil
}

// Expire removes sessions idle for longer than the idle timeout and returns how many were removed.
func (m *Manager) Expire() int {
	if m.opts.IdleTimeout <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.opts.IdleTimeout)
	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, s := range expired {
		s.clearAuth()
	}
	if len(expired) > 0 {
		m.logger.Info("Expired idle sessions", "count", len(expired))
	}
	return len(expired)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close unsubscribes from the provider and waits for outstanding wishlist writes.
func (m *Manager) Close() {
	m.unsubscribe()
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()
	for _, s := range sessions {
		s.wishlist.Wait()
	}
}

// handleEvent signs out every session of a user the provider reports as signed out.
func (m *Manager) handleEvent(ev Event) {
	switch ev.Type {
	case EventSignedOut:
		m.mu.RLock()
		var affected []*Session
		for _, s := range m.sessions {
			if uid, ok := s.userID(); ok && uid == ev.UserID {
				affected = append(affected, s)
			}
		}
		m.mu.RUnlock()
		for _, s := range affected {
			s.clearAuth()
		}
		if len(affected) > 0 {
			m.logger.Info("Signed out sessions of user", "user_id", ev.UserID, "sessions", len(affected))
		}
	default:
		m.logger.Debug("Auth event", "type", ev.Type, "user_id", ev.UserID)
	}
}
