// Package cart implements the per-session cart ledger.
package cart

import (
	"errors"
	"fmt"
	"slices"

	"github.com/abgdnv/giftshop/internal/catalog"
)

var (
	ErrOutOfStock   = errors.New("product is out of stock")
	ErrInvalidColor = errors.New("color is not offered for product")
	ErrLineNotFound = errors.New("cart line not found")
)

// Item is one "add to cart" request.
type Item struct {
	Product     catalog.Product
	Quantity    int
	Color       string
	GiftMessage string
	CustomLogo  string
}

// Line is a merged cart entry keyed by product id and color.
type Line struct {
	Product     catalog.Product `json:"product"`
	Quantity    int             `json:"quantity"`
	Color       string          `json:"selectedColor,omitempty"`
	GiftMessage string          `json:"giftMessage,omitempty"`
	CustomLogo  string          `json:"customLogo,omitempty"`
}

// Subtotal is price times quantity.
func (l Line) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

type lineKey struct {
	productID string
	color     string
}

func (l Line) key() lineKey {
	return lineKey{productID: l.Product.ID, color: l.Color}
}

// Ledger holds cart lines in insertion order and never holds two lines with the same key.
// It is not safe for concurrent use; the owning session serializes access.
type Ledger struct {
	lines []Line
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// AddLine merges item into the ledger.
// Quantities below one are clamped to one. An empty color selects the product's first declared color.
// A matching line keeps its position, sums quantities and takes the new message and logo only when given.
func (l *Ledger) AddLine(item Item) (Line, error) {
	p := item.Product
	if !p.InStock {
		return Line{}, fmt.Errorf("%w: %s", ErrOutOfStock, p.ID)
	}
	color := item.Color
	if color == "" {
		color = p.DefaultColor()
	} else if !p.HasColor(color) {
		return Line{}, fmt.Errorf("%w: %s has no %q", ErrInvalidColor, p.ID, color)
	}

	line := Line{
		Product:     p,
		Quantity:    max(1, item.Quantity),
		Color:       color,
		GiftMessage: item.GiftMessage,
		CustomLogo:  item.CustomLogo,
	}

	i := slices.IndexFunc(l.lines, func(existing Line) bool { return existing.key() == line.key() })
	if i < 0 {
		l.lines = append(l.lines, line)
		return line, nil
	}

	merged := l.lines[i]
	merged.Quantity += line.Quantity
	if line.GiftMessage != "" {
		merged.GiftMessage = line.GiftMessage
	}
	if line.CustomLogo != "" {
		merged.CustomLogo = line.CustomLogo
	}
	l.lines[i] = merged
	return merged, nil
}

// RemoveLine removes every line of the product regardless of color and returns how many were removed.
func (l *Ledger) RemoveLine(productID string) int {
	before := len(l.lines)
	l.lines = slices.DeleteFunc(l.lines, func(line Line) bool { return line.Product.ID == productID })
	return before - len(l.lines)
}

// RemoveVariant removes the single line with the given product id and color.
func (l *Ledger) RemoveVariant(productID, color string) error {
	key := lineKey{productID: productID, color: color}
	i := slices.IndexFunc(l.lines, func(line Line) bool { return line.key() == key })
	if i < 0 {
		return fmt.Errorf("%w: %s/%s", ErrLineNotFound, productID, color)
	}
	l.lines = slices.Delete(l.lines, i, i+1)
	return nil
}

// Total is the sum of price times quantity over all lines.
func (l *Ledger) Total() int64 {
	var total int64
	for _, line := range l.lines {
		total += line.Subtotal()
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (l *Ledger) ItemCount() int {
	n := 0
	for _, line := range l.lines {
		n += line.Quantity
	}
	return n
}

// Lines returns a copy of the lines in insertion order.
func (l *Ledger) Lines() []Line {
	return slices.Clone(l.lines)
}

func (l *Ledger) Empty() bool {
	return len(l.lines) == 0
}

func (l *Ledger) Clear() {
	l.lines = nil
}

// Summary is the quote summary shown next to the cart.
type Summary struct {
	Lines                  []Line `json:"lines"`
	ItemCount              int    `json:"totalItems"`
	Total                  int64  `json:"total"`
	ComplimentaryLogistics bool   `json:"complimentaryLogistics"`
}

// Summary snapshots the ledger. Logistics are always complimentary.
func (l *Ledger) Summary() Summary {
	lines := l.Lines()
	if lines == nil {
		lines = []Line{}
	}
	return Summary{
		Lines:                  lines,
		ItemCount:              l.ItemCount(),
		Total:                  l.Total(),
		ComplimentaryLogistics: true,
	}
}
