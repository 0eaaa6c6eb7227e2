package quote

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/abgdnv/giftshop/pkg/config"
	"github.com/abgdnv/giftshop/pkg/messaging/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"golang.org/x/sync/errgroup"
)

// Notifier handles one quote request delivered from the bus.
type Notifier interface {
	Notify(ctx context.Context, event events.QuoteRequestedEvent) error
}

// LogNotifier writes quote requests to the log for the sales desk.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "quote_notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, event events.QuoteRequestedEvent) error {
	n.logger.InfoContext(ctx, "Quote request received",
		slog.String("quote_id", event.QuoteID.String()),
		slog.String("user_id", event.UserID.String()),
		slog.String("email", event.Email),
		slog.String("company", event.Company),
		slog.Int("lines", len(event.Lines)),
		slog.Int64("total", event.TotalPrice),
		slog.String("requested_at", event.RequestedAt.Format(time.RFC3339)))
	return nil
}

// Subscribe creates the durable consumer and runs cfg.Workers fetch loops until ctx is done.
func Subscribe(ctx context.Context, js jetstream.JetStream, cfg config.SubscriberConfig, notifier Notifier, logger *slog.Logger) error {
	consumer, err := js.CreateOrUpdateConsumer(ctx, cfg.Stream, jetstream.ConsumerConfig{
		FilterSubject: cfg.Subject,
		Durable:       cfg.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return err
	}
	logger = logger.With("component", "quote_subscriber")
	g, gCtx := errgroup.WithContext(ctx)
	for range cfg.Workers {
		g.Go(func() error {
			return runWorker(gCtx, consumer, cfg.Timeout, cfg.Interval, notifier, logger)
		})
	}
	return g.Wait()
}

func runWorker(ctx context.Context, consumer jetstream.Consumer, timeout, interval time.Duration, notifier Notifier, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			batch, err := consumer.Fetch(1, jetstream.FetchMaxWait(timeout))
			if err != nil {
				if errors.Is(err, nats.ErrTimeout) {
					continue
				}
				logger.Error("Failed to fetch messages", "error", err)
				time.Sleep(interval)
				continue
			}
			for msg := range batch.Messages() {
				handleMessage(ctx, msg, notifier, logger)
			}
		}
	}
}

// ackableMsg is the part of jetstream.Msg a handler touches.
type ackableMsg interface {
	Data() []byte
	Ack() error
	Nak() error
}

func handleMessage(ctx context.Context, msg ackableMsg, notifier Notifier, logger *slog.Logger) {
	if msg == nil {
		logger.Error("Received nil message")
		return
	}
	var event events.QuoteRequestedEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		logger.Error("Failed to unmarshal quote request", "error", err)
		// malformed payloads are dropped, not redelivered
		if err := msg.Ack(); err != nil {
			logger.Error("Failed to ack message", "error", err)
		}
		return
	}
	if err := notifier.Notify(ctx, event); err != nil {
		logger.Error("Failed to handle quote request", "quote_id", event.QuoteID, "error", err)
		if err := msg.Nak(); err != nil {
			logger.Error("Failed to nak message", "error", err)
		}
		return
	}
	if err := msg.Ack(); err != nil {
		logger.Error("Failed to ack message", "error", err)
	}
}
