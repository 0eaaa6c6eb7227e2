package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/abgdnv/giftshop/internal/cart"
	"github.com/abgdnv/giftshop/internal/catalog"
	"github.com/abgdnv/giftshop/internal/wishlist"
	"github.com/google/uuid"
)

// Session is one visitor's storefront state. Its cart, criteria and user are only reached through
// its methods, which serialize on the session lock. The wishlist and auth flow guard themselves.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	catalog  *catalog.Catalog
	wishlist *wishlist.Synchronizer
	flow     *Flow

	mu       sync.Mutex
	cart     *cart.Ledger
	criteria catalog.Criteria
	user     *User
	token    Token
	lastSeen time.Time
}

func newSession(c *catalog.Catalog, w *wishlist.Synchronizer, f *Flow, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		catalog:   c,
		wishlist:  w,
		flow:      f,
		cart:      cart.NewLedger(),
		criteria:  catalog.DefaultCriteria(),
		lastSeen:  now,
	}
}

// CartRequest is an add-to-cart action addressed by product id.
type CartRequest struct {
	ProductID   string
	Quantity    int
	Color       string
	GiftMessage string
	CustomLogo  string
}

// AddToCart resolves the product and merges the line into the cart.
func (s *Session) AddToCart(req CartRequest) (cart.Line, error) {
	p, err := s.catalog.FindByID(req.ProductID)
	if err != nil {
		return cart.Line{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.AddLine(cart.Item{
		Product:     p,
		Quantity:    req.Quantity,
		Color:       req.Color,
		GiftMessage: req.GiftMessage,
		CustomLogo:  req.CustomLogo,
	})
}

// RemoveFromCart removes every line of the product and returns how many lines went away.
func (s *Session) RemoveFromCart(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.RemoveLine(productID)
}

func (s *Session) RemoveCartVariant(productID, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.RemoveVariant(productID, color)
}

func (s *Session) Cart() cart.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Summary()
}

// TakeCart returns the cart summary and empties the cart, atomically.
func (s *Session) TakeCart() cart.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := s.cart.Summary()
	s.cart.Clear()
	return summary
}

// RestoreCart puts lines taken by TakeCart back in front of anything added since.
func (s *Session) RestoreCart(lines []cart.Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.cart.Lines()
	s.cart.Clear()
	for _, l := range append(lines, current...) {
		_, _ = s.cart.AddLine(cart.Item{
			Product:     l.Product,
			Quantity:    l.Quantity,
			Color:       l.Color,
			GiftMessage: l.GiftMessage,
			CustomLogo:  l.CustomLogo,
		})
	}
}

// ToggleWishlist flips wishlist membership of a catalog product.
// A signed-out visitor gets wishlist.ErrAuthRequired and the sign-in form is opened.
func (s *Session) ToggleWishlist(ctx context.Context, productID string) (bool, error) {
	if _, err := s.catalog.FindByID(productID); err != nil {
		return false, err
	}
	member, err := s.wishlist.Toggle(ctx, productID)
	if errors.Is(err, wishlist.ErrAuthRequired) {
		s.flow.Open(ModeSignIn)
	}
	return member, err
}

func (s *Session) Wishlist() []string {
	return s.wishlist.Items()
}

func (s *Session) InWishlist(productID string) bool {
	return s.wishlist.Contains(productID)
}

func (s *Session) Criteria() catalog.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

func (s *Session) SetCriteria(c catalog.Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
}

// Products runs the session's criteria against the catalog.
func (s *Session) Products() []catalog.Product {
	return s.catalog.Query(s.Criteria())
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Flow() FlowSnapshot {
	return s.flow.Snapshot()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) setAuth(u User, t Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	s.token = t
}

func (s *Session) setToken(t Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = t
}

func (s *Session) currentToken() (Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.user != nil
}

func (s *Session) userID() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return uuid.Nil, false
	}
	return s.user.ID, true
}

// clearAuth drops the user and token and empties the wishlist. The cart is kept.
func (s *Session) clearAuth() Token {
	s.mu.Lock()
	t := s.token
	s.user = nil
	s.token = Token{}
	s.mu.Unlock()
	s.wishlist.SignOut()
	s.flow.Reset()
	return t
}
