package messaging

import (
	"context"
)

const (
	QuotesStream          = "QUOTES"
	QuoteRequestedSubject = "quotes.requested"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
