// Package wishlist keeps a signed-in user's wishlist in memory and mirrors every toggle to a remote store.
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var ErrAuthRequired = errors.New("sign in to use the wishlist")

// Store is the remote wishlist persistence keyed by (user id, product id).
type Store interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	Insert(ctx context.Context, userID uuid.UUID, productID string) error
	Delete(ctx context.Context, userID uuid.UUID, productID string) error
}

// pending tracks the in-flight toggles of one product id.
// Remote calls for the same key run one after another in toggle order.
type pending struct {
	confirmed bool          // membership last acknowledged by the store
	latest    uint64        // sequence number of the newest toggle
	tail      chan struct{} // closed when the newest remote call has finished
}

// Synchronizer applies toggles locally first and confirms or reverts them against the Store in the background.
type Synchronizer struct {
	store     Store
	logger    *slog.Logger
	timeout   time.Duration
	rollbacks metric.Int64Counter

	mu         sync.Mutex
	userID     uuid.UUID
	signedIn   bool
	generation uint64
	items      map[string]struct{}
	keys       map[string]*pending
	loading    bool
	loaded     map[string]bool // remote-confirmed membership of keys written while the initial load runs

	wg sync.WaitGroup
}

// NewSynchronizer creates a signed-out synchronizer. timeout bounds each remote call.
func NewSynchronizer(store Store, timeout time.Duration, logger *slog.Logger) *Synchronizer {
	rollbacks, err := otel.Meter("wishlist").Int64Counter("wishlist_rollbacks",
		metric.WithDescription("Optimistic wishlist toggles reverted after a remote failure"))
	if err != nil {
		panic(fmt.Sprintf("failed to create wishlist_rollbacks counter: %v", err))
	}
	return &Synchronizer{
		store:     store,
		logger:    logger.With("component", "wishlist"),
		timeout:   timeout,
		rollbacks: rollbacks,
		items:     make(map[string]struct{}),
		keys:      make(map[string]*pending),
	}
}

// SignIn replaces the local set with the user's remote entries.
// On a fetch error the user stays signed in with an empty wishlist and the error is returned.
func (s *Synchronizer) SignIn(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.userID = userID
	s.signedIn = true
	s.items = make(map[string]struct{})
	s.keys = make(map[string]*pending)
	s.loading = true
	s.loaded = make(map[string]bool)
	s.mu.Unlock()

	ids, err := s.store.ListByUser(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil
	}
	s.loading = false
	loaded := s.loaded
	s.loaded = nil
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load wishlist", "user_id", userID, "error", err)
		return fmt.Errorf("failed to load wishlist: %w", err)
	}
	items := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		items[id] = struct{}{}
	}
	// writes confirmed while loading may postdate the snapshot
	for id, member := range loaded {
		if member {
			items[id] = struct{}{}
		} else {
			delete(items, id)
		}
	}
	// toggles still in flight win over the fetched snapshot
	for id := range s.keys {
		if _, ok := s.items[id]; ok {
			items[id] = struct{}{}
		} else {
			delete(items, id)
		}
	}
	s.items = items
	s.logger.InfoContext(ctx, "Wishlist loaded", "user_id", userID, "items", len(items))
	return nil
}

// SignOut clears the local set. In-flight remote calls finish but no longer touch local state.
func (s *Synchronizer) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.userID = uuid.Nil
	s.signedIn = false
	s.loading = false
	s.loaded = nil
	s.items = make(map[string]struct{})
	s.keys = make(map[string]*pending)
}

// Toggle flips membership of productID immediately and returns the new membership.
// The remote write runs in the background; on failure the newest toggle of a key reverts the key
// to the membership last confirmed by the store.
// Returns ErrAuthRequired when no user is signed in.
func (s *Synchronizer) Toggle(ctx context.Context, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.signedIn {
		return false, ErrAuthRequired
	}

	_, had := s.items[productID]
	want := !had
	s.set(productID, want)

	p, ok := s.keys[productID]
	if !ok {
		p = &pending{confirmed: had}
		s.keys[productID] = p
	}
	p.latest++
	seq := p.latest
	prev := p.tail
	done := make(chan struct{})
	p.tail = done

	s.wg.Add(1)
	go s.sync(context.WithoutCancel(ctx), s.generation, s.userID, productID, want, seq, prev, done)
	return want, nil
}

func (s *Synchronizer) sync(ctx context.Context, gen uint64, userID uuid.UUID, productID string, want bool, seq uint64, prev, done chan struct{}) {
	defer s.wg.Done()
	defer close(done)
	if prev != nil {
		<-prev
	}

	err := s.remote(ctx, userID, productID, want)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	p := s.keys[productID]
	if err != nil {
		s.logger.WarnContext(ctx, "Wishlist sync failed", "user_id", userID, "product_id", productID, "add", want, "error", err)
		if seq == p.latest {
			s.set(productID, p.confirmed)
			s.rollbacks.Add(ctx, 1)
			s.logger.InfoContext(ctx, "Wishlist toggle rolled back", "product_id", productID, "member", p.confirmed)
		}
	} else {
		p.confirmed = want
		if s.loading {
			s.loaded[productID] = want
		}
	}
	if seq == p.latest {
		delete(s.keys, productID)
	}
}

func (s *Synchronizer) remote(ctx context.Context, userID uuid.UUID, productID string, add bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if add {
		return s.store.Insert(ctx, userID, productID)
	}
	return s.store.Delete(ctx, userID, productID)
}

func (s *Synchronizer) set(productID string, member bool) {
	if member {
		s.items[productID] = struct{}{}
	} else {
		delete(s.items, productID)
	}
}

// Contains reports local membership.
func (s *Synchronizer) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[productID]
	return ok
}

// Items returns the local set sorted by product id.
func (s *Synchronizer) Items() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := slices.Sorted(maps.Keys(s.items))
	if items == nil {
		return []string{}
	}
	return items
}

func (s *Synchronizer) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signedIn
}

// Wait blocks until every issued remote call has completed.
func (s *Synchronizer) Wait() {
	s.wg.Wait()
}
