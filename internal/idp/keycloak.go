// Package idp adapts Keycloak to the storefront's authentication provider contract.
package idp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Nerzal/gocloak/v13"
	"github.com/abgdnv/giftshop/internal/session"
	"github.com/abgdnv/giftshop/pkg/auth"
	"github.com/abgdnv/giftshop/pkg/config"
	"github.com/google/uuid"
)

var ErrIdPInteractionFailed = errors.New("identity provider interaction failed")

// KeycloakClient is the subset of *gocloak.GoCloak the provider uses.
type KeycloakClient interface {
	LoginClient(ctx context.Context, clientID, clientSecret, realm string, scopes ...string) (*gocloak.JWT, error)
	Login(ctx context.Context, clientID, clientSecret, realm, username, password string) (*gocloak.JWT, error)
	CreateUser(ctx context.Context, token, realm string, user gocloak.User) (string, error)
	SetPassword(ctx context.Context, token, userID, realm, password string, temporary bool) error
	DeleteUser(ctx context.Context, accessToken, realm, userID string) error
	Logout(ctx context.Context, clientID, clientSecret, realm, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken, clientID, clientSecret, realm string) (*gocloak.JWT, error)
}

// Provider implements session.AuthProvider on Keycloak. Access tokens are verified locally against the realm JWKS.
type Provider struct {
	session.Broadcaster

	client   KeycloakClient
	verifier auth.Verifier
	realm    string
	clientID string
	secret   string
	timeout  time.Duration
	logger   *slog.Logger
}

func NewProvider(client KeycloakClient, verifier auth.Verifier, cfg config.IdP, logger *slog.Logger) *Provider {
	return &Provider{
		client:   client,
		verifier: verifier,
		realm:    cfg.Realm,
		clientID: cfg.ClientID,
		secret:   cfg.Secret,
		timeout:  cfg.Timeout,
		logger:   logger.With("component", "keycloak"),
	}
}

// SignUp creates the account, sets its password and signs it in.
func (p *Provider) SignUp(ctx context.Context, email, password string, metadata session.Metadata) (*session.AuthSession, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	admin, err := p.client.LoginClient(ctx, p.clientID, p.secret, p.realm)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to login service account", "error", err)
		return nil, fmt.Errorf("%w: failed to login to Keycloak: %v", ErrIdPInteractionFailed, err)
	}

	username := metadata.Username
	if username == "" {
		username = email
	}
	user := gocloak.User{
		Username:      gocloak.StringP(username),
		Email:         gocloak.StringP(email),
		Enabled:       gocloak.BoolP(true),
		EmailVerified: gocloak.BoolP(false),
		FirstName:     gocloak.StringP(metadata.Username),
	}
	userID, err := p.client.CreateUser(ctx, admin.AccessToken, p.realm, user)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to create user", "error", err)
		var apiErr *gocloak.APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
			return nil, session.ErrAccountExists
		}
		return nil, fmt.Errorf("%w: failed to create user: %v", ErrIdPInteractionFailed, err)
	}

	if err := p.client.SetPassword(ctx, admin.AccessToken, userID, p.realm, password, false); err != nil {
		p.logger.ErrorContext(ctx, "Failed to set password", "error", err)
		_ = p.client.DeleteUser(ctx, admin.AccessToken, p.realm, userID)
		return nil, fmt.Errorf("%w: failed to set password: %v", ErrIdPInteractionFailed, err)
	}

	as, err := p.login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if as.Identity.Name == "" {
		as.Identity.Name = metadata.Username
	}
	return as, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*session.AuthSession, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.login(ctx, email, password)
}

func (p *Provider) login(ctx context.Context, email, password string) (*session.AuthSession, error) {
	jwt, err := p.client.Login(ctx, p.clientID, p.secret, p.realm, email, password)
	if err != nil {
		return nil, mapAuthError(err)
	}
	as, err := p.sessionFrom(ctx, jwt)
	if err != nil {
		return nil, err
	}
	p.Publish(session.Event{Type: session.EventSignedIn, UserID: as.Identity.UserID})
	return as, nil
}

// SignOut ends the Keycloak session of the refresh token.
func (p *Provider) SignOut(ctx context.Context, token session.Token) error {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	var userID uuid.UUID
	if id, err := p.identity(ctx, token.AccessToken); err == nil {
		userID = id.UserID
	}
	if err := p.client.Logout(ctx, p.clientID, p.secret, p.realm, token.RefreshToken); err != nil {
		return fmt.Errorf("%w: failed to logout: %v", ErrIdPInteractionFailed, err)
	}
	if userID != uuid.Nil {
		p.Publish(session.Event{Type: session.EventSignedOut, UserID: userID})
	}
	return nil
}

// CurrentSession verifies an access token issued earlier and rebuilds the session from its claims.
func (p *Provider) CurrentSession(ctx context.Context, accessToken string) (*session.AuthSession, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	id, err := p.identity(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return &session.AuthSession{Identity: id, Token: session.Token{AccessToken: accessToken}}, nil
}

func (p *Provider) Refresh(ctx context.Context, token session.Token) (*session.AuthSession, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	jwt, err := p.client.RefreshToken(ctx, token.RefreshToken, p.clientID, p.secret, p.realm)
	if err != nil {
		return nil, mapAuthError(err)
	}
	as, err := p.sessionFrom(ctx, jwt)
	if err != nil {
		return nil, err
	}
	p.Publish(session.Event{Type: session.EventTokenRefreshed, UserID: as.Identity.UserID})
	return as, nil
}

func (p *Provider) sessionFrom(ctx context.Context, jwt *gocloak.JWT) (*session.AuthSession, error) {
	id, err := p.identity(ctx, jwt.AccessToken)
	if err != nil {
		return nil, err
	}
	return &session.AuthSession{
		Identity: id,
		Token: session.Token{
			AccessToken:  jwt.AccessToken,
			RefreshToken: jwt.RefreshToken,
			ExpiresAt:    time.Now().Add(time.Duration(jwt.ExpiresIn) * time.Second),
		},
	}, nil
}

func (p *Provider) identity(ctx context.Context, accessToken string) (session.Identity, error) {
	claims, err := p.verifier.Verify(ctx, accessToken)
	if err != nil {
		return session.Identity{}, fmt.Errorf("%w: %v", session.ErrInvalidCredentials, err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return session.Identity{}, fmt.Errorf("%w: subject is not a uuid: %v", ErrIdPInteractionFailed, err)
	}
	return session.Identity{
		UserID:   userID,
		Email:    claims.Email,
		Name:     claims.Name,
		Username: claims.PreferredUsername,
	}, nil
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

func mapAuthError(err error) error {
	var apiErr *gocloak.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusBadRequest:
			return session.ErrInvalidCredentials
		}
	}
	return fmt.Errorf("%w: %v", ErrIdPInteractionFailed, err)
}
