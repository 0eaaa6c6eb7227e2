package quote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/abgdnv/giftshop/internal/cart"
	"github.com/abgdnv/giftshop/internal/catalog"
	"github.com/abgdnv/giftshop/internal/session"
	"github.com/abgdnv/giftshop/pkg/messaging"
	"github.com/abgdnv/giftshop/pkg/messaging/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event messaging.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type fakeCart struct {
	user     *session.User
	ledger   *cart.Ledger
	restored []cart.Line
}

func (c *fakeCart) User() *session.User { return c.user }

func (c *fakeCart) TakeCart() cart.Summary {
	s := c.ledger.Summary()
	c.ledger.Clear()
	return s
}

func (c *fakeCart) RestoreCart(lines []cart.Line) { c.restored = lines }

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func newCart(t *testing.T, user *session.User) *fakeCart {
	t.Helper()
	c := catalog.Default()
	wk1, err := c.FindByID("wk1")
	require.NoError(t, err)
	dw1, err := c.FindByID("dw1")
	require.NoError(t, err)
	l := cart.NewLedger()
	_, err = l.AddLine(cart.Item{Product: wk1, Quantity: 2, GiftMessage: "Welcome aboard"})
	require.NoError(t, err)
	_, err = l.AddLine(cart.Item{Product: dw1, Quantity: 1})
	require.NoError(t, err)
	return &fakeCart{user: user, ledger: l}
}

func TestService_Request(t *testing.T) {
	// given
	user := &session.User{ID: uuid.New(), Email: "jane@acme.com", Company: "Acme", Role: session.RoleBuyer}
	c := newCart(t, user)
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.AnythingOfType("*events.QuoteRequestedEvent")).Return(nil).Once()
	svc := NewService(pub, discardLog)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	// when
	ev, err := svc.Request(context.Background(), c)

	// then
	require.NoError(t, err)
	pub.AssertExpectations(t)
	assert.NotEqual(t, uuid.Nil, ev.QuoteID)
	assert.Equal(t, user.ID, ev.UserID)
	assert.Equal(t, "Acme", ev.Company)
	assert.Equal(t, fixed, ev.RequestedAt)
	require.Len(t, ev.Lines, 2)
	assert.Equal(t, "wk1", ev.Lines[0].ProductID)
	assert.Equal(t, 2, ev.Lines[0].Quantity)
	assert.Equal(t, "Welcome aboard", ev.Lines[0].GiftMessage)
	assert.Equal(t, ev.Lines[0].UnitPrice*2+ev.Lines[1].UnitPrice, ev.TotalPrice)
	assert.True(t, c.ledger.Empty())
	assert.Nil(t, c.restored)
	assert.Equal(t, messaging.QuoteRequestedSubject, ev.Subject())
}

func TestService_RequestPublishFailureRestoresCart(t *testing.T) {
	// given
	c := newCart(t, &session.User{ID: uuid.New()})
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("no responders")).Once()
	svc := NewService(pub, discardLog)

	// when
	_, err := svc.Request(context.Background(), c)

	// then
	require.Error(t, err)
	require.Len(t, c.restored, 2)
	assert.Equal(t, "wk1", c.restored[0].Product.ID)
}

func TestService_RequestRejected(t *testing.T) {
	tests := []struct {
		name    string
		cart    func(t *testing.T) *fakeCart
		wantErr error
	}{
		{
			name:    "signed out",
			cart:    func(t *testing.T) *fakeCart { return newCart(t, nil) },
			wantErr: session.ErrNotSignedIn,
		},
		{
			name: "empty cart",
			cart: func(*testing.T) *fakeCart {
				return &fakeCart{user: &session.User{ID: uuid.New()}, ledger: cart.NewLedger()}
			},
			wantErr: ErrEmptyCart,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// given
			pub := new(mockPublisher)
			svc := NewService(pub, discardLog)

			// when
			_, err := svc.Request(context.Background(), tt.cart(t))

			// then
			require.ErrorIs(t, err, tt.wantErr)
			pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}

func TestLogPublisher(t *testing.T) {
	// given
	p := NewLogPublisher(discardLog)

	// when
	err := p.Publish(context.Background(), events.QuoteRequestedEvent{QuoteID: uuid.New()})

	// then
	assert.NoError(t, err)
}
