package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/giftshop/pkg/messaging"
	"github.com/google/uuid"
)

type QuoteLine struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	GiftMessage string `json:"gift_message,omitempty"`
	CustomLogo  string `json:"custom_logo,omitempty"`
}

// QuoteRequestedEvent is emitted when a buyer finalizes a cart into a quote request.
type QuoteRequestedEvent struct {
	QuoteID     uuid.UUID   `json:"quote_id"`
	UserID      uuid.UUID   `json:"user_id"`
	Email       string      `json:"email"`
	Company     string      `json:"company"`
	Lines       []QuoteLine `json:"lines"`
	TotalPrice  int64       `json:"total_price"`
	RequestedAt time.Time   `json:"requested_at"`
}

func (q QuoteRequestedEvent) Subject() string {
	return messaging.QuoteRequestedSubject
}

func (q QuoteRequestedEvent) Payload() ([]byte, error) {
	return json.Marshal(q)
}
