package rest

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/abgdnv/giftshop/internal/recommend"
	"github.com/abgdnv/giftshop/internal/session"
	"github.com/abgdnv/giftshop/internal/store"
	"github.com/abgdnv/giftshop/pkg/messaging"
	"github.com/google/uuid"
)

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

const testPassword = "secret1"

// fakeProvider accepts testPassword for any email.
type fakeProvider struct {
	session.Broadcaster

	mu      sync.Mutex
	userID  uuid.UUID
	signUps int
}

func (f *fakeProvider) authSession(email string) *session.AuthSession {
	return &session.AuthSession{
		Identity: session.Identity{UserID: f.userID, Email: email},
		Token:    session.Token{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(time.Hour)},
	}
}

func (f *fakeProvider) SignUp(_ context.Context, email, _ string, metadata session.Metadata) (*session.AuthSession, error) {
	f.mu.Lock()
	f.signUps++
	f.mu.Unlock()
	as := f.authSession(email)
	as.Identity.Username = metadata.Username
	return as, nil
}

func (f *fakeProvider) SignIn(_ context.Context, email, password string) (*session.AuthSession, error) {
	if password != testPassword {
		return nil, session.ErrInvalidCredentials
	}
	return f.authSession(email), nil
}

func (f *fakeProvider) SignOut(context.Context, session.Token) error {
	f.Publish(session.Event{Type: session.EventSignedOut, UserID: f.userID})
	return nil
}

func (f *fakeProvider) CurrentSession(_ context.Context, accessToken string) (*session.AuthSession, error) {
	if accessToken != "access" {
		return nil, session.ErrInvalidCredentials
	}
	return f.authSession("jane@acme.com"), nil
}

func (f *fakeProvider) Refresh(context.Context, session.Token) (*session.AuthSession, error) {
	return f.authSession("jane@acme.com"), nil
}

func (f *fakeProvider) signUpCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signUps
}

// memStore keeps profiles and wishlists in memory.
type memStore struct {
	mu        sync.Mutex
	profiles  map[uuid.UUID]store.Profile
	wishlists map[uuid.UUID]map[string]struct{}
}

func newMemStore() *memStore {
	return &memStore{profiles: make(map[uuid.UUID]store.Profile), wishlists: make(map[uuid.UUID]map[string]struct{})}
}

func (m *memStore) FindProfileByID(_ context.Context, id uuid.UUID) (*store.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return &p, nil
}

func (m *memStore) UpsertProfile(_ context.Context, p store.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
	return nil
}

func (m *memStore) ListByUser(_ context.Context, userID uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for id := range m.wishlists[userID] {
		out = append(out, id)
	}
	return out, nil
}

func (m *memStore) Insert(_ context.Context, userID uuid.UUID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.wishlists[userID] == nil {
		m.wishlists[userID] = make(map[string]struct{})
	}
	m.wishlists[userID][productID] = struct{}{}
	return nil
}

func (m *memStore) Delete(_ context.Context, userID uuid.UUID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.wishlists[userID], productID)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []messaging.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event messaging.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type fakeConcierge struct{}

func (fakeConcierge) Recommend(_ context.Context, req recommend.Request) recommend.Result {
	req = req.WithDefaults()
	return recommend.Result{Text: "Gift ideas for " + req.Occasion, Request: req}
}
