package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abgdnv/giftshop/pkg/config"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jws"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// rotationFloor bounds how often a token signed with an unknown key can force a JWKS fetch.
const rotationFloor = 10 * time.Second

// Verifier checks an access token issued by the identity provider and returns its identity claims.
type Verifier interface {
	Verify(ctx context.Context, accessToken string) (Claims, error)
}

// JWTVerifier validates tokens against the realm's JWKS. The key set is cached for
// minInterval; a token whose key id is missing from the cache triggers one early refetch
// so signing key rotation is picked up without waiting for the cache to age out.
type JWTVerifier struct {
	mu sync.RWMutex

	jwksURL  string
	issuer   string
	clientID string

	keys          jwk.Set
	fetchedAt     time.Time
	minInterval   time.Duration
	rotationFloor time.Duration
}

// NewJWTVerifier fetches the key set once so a misconfigured realm fails at startup.
func NewJWTVerifier(ctx context.Context, cfg config.IdP) (*JWTVerifier, error) {
	v := &JWTVerifier{
		jwksURL:       cfg.JwksURL,
		issuer:        cfg.Issuer,
		clientID:      cfg.ClientID,
		minInterval:   cfg.MinInterval,
		rotationFloor: rotationFloor,
	}
	if _, err := v.keySet(ctx, false); err != nil {
		return nil, fmt.Errorf("initial JWKS fetch failed: %w", err)
	}
	return v, nil
}

// keySet returns the cached keys while they are fresh. With rotated set, the cache is
// bypassed unless it was filled less than rotationFloor ago. A failed fetch keeps serving
// the previous keys.
func (v *JWTVerifier) keySet(ctx context.Context, rotated bool) (jwk.Set, error) {
	fresh := func() bool {
		if v.keys == nil {
			return false
		}
		age := time.Since(v.fetchedAt)
		if rotated {
			return age < v.rotationFloor
		}
		return age < v.minInterval
	}

	v.mu.RLock()
	if fresh() {
		keys := v.keys
		v.mu.RUnlock()
		return keys, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()
	if fresh() {
		return v.keys, nil
	}
	keys, err := jwk.Fetch(ctx, v.jwksURL)
	if err != nil {
		if v.keys != nil {
			return v.keys, nil
		}
		return nil, fmt.Errorf("failed to fetch JWKS from %s: %w", v.jwksURL, err)
	}
	v.keys = keys
	v.fetchedAt = time.Now()
	return keys, nil
}

// Verify checks signature, expiry, issuer and authorized party, then extracts the claims.
func (v *JWTVerifier) Verify(ctx context.Context, accessToken string) (Claims, error) {
	keys, err := v.keySet(ctx, false)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to get keyset for verification: %w", err)
	}
	if kid := keyID(accessToken); kid != "" {
		if _, known := keys.LookupKeyID(kid); !known {
			if keys, err = v.keySet(ctx, true); err != nil {
				return Claims{}, fmt.Errorf("failed to refresh keyset: %w", err)
			}
		}
	}

	token, err := jwt.Parse([]byte(accessToken),
		jwt.WithKeySet(keys),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithClaimValue("azp", v.clientID),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to verify token: %w", err)
	}
	return claimsFrom(token)
}

// keyID reads the kid header without verifying anything. Malformed tokens yield "" and
// are rejected later by jwt.Parse.
func keyID(accessToken string) string {
	msg, err := jws.Parse([]byte(accessToken))
	if err != nil || len(msg.Signatures()) == 0 {
		return ""
	}
	kid, _ := msg.Signatures()[0].ProtectedHeaders().KeyID()
	return kid
}
