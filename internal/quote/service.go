// Package quote turns a signed-in buyer's cart into a quote request on the message bus.
package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/giftshop/internal/cart"
	"github.com/abgdnv/giftshop/internal/session"
	"github.com/abgdnv/giftshop/pkg/messaging"
	"github.com/abgdnv/giftshop/pkg/messaging/events"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var ErrEmptyCart = errors.New("cart is empty")

// Cart is the part of a storefront session a quote request consumes.
type Cart interface {
	User() *session.User
	TakeCart() cart.Summary
	RestoreCart(lines []cart.Line)
}

type Service struct {
	publisher messaging.Publisher
	requested metric.Int64Counter
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(publisher messaging.Publisher, logger *slog.Logger) *Service {
	requested, err := otel.Meter("quote").Int64Counter("quotes_requested",
		metric.WithDescription("Quote requests published"))
	if err != nil {
		panic(fmt.Sprintf("failed to create quotes_requested counter: %v", err))
	}
	return &Service{
		publisher: publisher,
		requested: requested,
		logger:    logger.With("component", "quote"),
		now:       time.Now,
	}
}

// Request empties the cart into a QuoteRequestedEvent and publishes it.
// When publishing fails the lines are put back into the cart.
func (s *Service) Request(ctx context.Context, c Cart) (*events.QuoteRequestedEvent, error) {
	user := c.User()
	if user == nil {
		return nil, session.ErrNotSignedIn
	}
	summary := c.TakeCart()
	if len(summary.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	event := &events.QuoteRequestedEvent{
		QuoteID:     uuid.New(),
		UserID:      user.ID,
		Email:       user.Email,
		Company:     user.Company,
		Lines:       make([]events.QuoteLine, 0, len(summary.Lines)),
		TotalPrice:  summary.Total,
		RequestedAt: s.now().UTC(),
	}
	for _, l := range summary.Lines {
		event.Lines = append(event.Lines, events.QuoteLine{
			ProductID:   l.Product.ID,
			Name:        l.Product.Name,
			Color:       l.Color,
			Quantity:    l.Quantity,
			UnitPrice:   l.Product.Price,
			GiftMessage: l.GiftMessage,
			CustomLogo:  l.CustomLogo,
		})
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		c.RestoreCart(summary.Lines)
		s.logger.ErrorContext(ctx, "Failed to publish quote request", "quote_id", event.QuoteID, "error", err)
		return nil, fmt.Errorf("failed to request quote: %w", err)
	}
	s.requested.Add(ctx, 1)
	s.logger.InfoContext(ctx, "Quote requested", "quote_id", event.QuoteID, "user_id", user.ID, "total", event.TotalPrice)
	return event, nil
}

// LogPublisher stands in for the bus when messaging is disabled.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "quote_log_publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, event messaging.Event) error {
	payload, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	p.logger.InfoContext(ctx, "Messaging disabled, event not published", "subject", event.Subject(), "bytes", len(payload))
	return nil
}
