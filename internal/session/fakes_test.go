package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/abgdnv/giftshop/internal/store"
	"github.com/google/uuid"
)

var (
	errRemote  = errors.New("remote unavailable")
	discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// fakeProvider is a hand-written AuthProvider that counts calls.
type fakeProvider struct {
	Broadcaster

	mu           sync.Mutex
	identity     Identity
	signInErr    error
	signUpErr    error
	refreshErr   error
	restoreDelay time.Duration
	signInCalls  int
	signUpCalls  int
	signOutCalls int
	block        chan struct{}
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{identity: Identity{UserID: uuid.New(), Email: "jane.doe@acme.test"}}
}

func (f *fakeProvider) session() *AuthSession {
	return &AuthSession{Identity: f.identity, Token: Token{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(time.Hour)}}
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password string, metadata Metadata) (*AuthSession, error) {
	f.mu.Lock()
	f.signUpCalls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	as := f.session()
	as.Identity.Email = email
	as.Identity.Username = metadata.Username
	f.Publish(Event{Type: EventSignedIn, UserID: as.Identity.UserID})
	return as, nil
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	f.mu.Lock()
	f.signInCalls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.Publish(Event{Type: EventSignedIn, UserID: f.identity.UserID})
	return f.session(), nil
}

func (f *fakeProvider) SignOut(ctx context.Context, token Token) error {
	f.mu.Lock()
	f.signOutCalls++
	f.mu.Unlock()
	f.Publish(Event{Type: EventSignedOut, UserID: f.identity.UserID})
	return nil
}

func (f *fakeProvider) CurrentSession(ctx context.Context, accessToken string) (*AuthSession, error) {
	time.Sleep(f.restoreDelay)
	if accessToken != "access" {
		return nil, ErrInvalidCredentials
	}
	return f.session(), nil
}

func (f *fakeProvider) Refresh(ctx context.Context, token Token) (*AuthSession, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	as := f.session()
	as.Token.AccessToken = "access-2"
	return as, nil
}

func (f *fakeProvider) calls() (signIn, signUp, signOut int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signInCalls, f.signUpCalls, f.signOutCalls
}

// fakeProfiles fails the first failures lookups, then serves profiles from memory.
type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]store.Profile
	failures int
	lookups  int
	upserts  []store.Profile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: make(map[uuid.UUID]store.Profile)}
}

func (f *fakeProfiles) FindProfileByID(ctx context.Context, id uuid.UUID) (*store.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.lookups <= f.failures {
		return nil, errRemote
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) UpsertProfile(ctx context.Context, p store.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, p)
	f.profiles[p.ID] = p
	return nil
}

type fakeWishlists struct {
	mu      sync.Mutex
	entries map[uuid.UUID][]string
}

func newFakeWishlists() *fakeWishlists {
	return &fakeWishlists{entries: make(map[uuid.UUID][]string)}
}

func (f *fakeWishlists) ListByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.entries[userID]...), nil
}

func (f *fakeWishlists) Insert(ctx context.Context, userID uuid.UUID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[userID] = append(f.entries[userID], productID)
	return nil
}

func (f *fakeWishlists) Delete(ctx context.Context, userID uuid.UUID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[userID][:0]
	for _, id := range f.entries[userID] {
		if id != productID {
			kept = append(kept, id)
		}
	}
	f.entries[userID] = kept
	return nil
}
