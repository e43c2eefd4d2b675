package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrMissingProductID = errors.New("product id is required")
)

// Item is the product snapshot a line keeps. It survives catalog refreshes.
type Item struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Size      string          `json:"size,omitempty"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
}

// Line is one entry in the ledger, keyed by product id and size.
type Line struct {
	Item
	Quantity int `json:"qty"`
}

// Subtotal is unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineID is the identifier a product takes in the cart. Each size of a
// product is its own line.
func LineID(productID, size string) string {
	if size == "" {
		return productID
	}
	return productID + "#" + size
}

// Ledger holds at most one line per identifier. It is owned by a single
// request and is not safe for concurrent use.
type Ledger struct {
	lines []Line
}

// New returns an empty ledger.
func New() *Ledger { return &Ledger{} }

// FromLines rebuilds a ledger from stored lines, merging duplicates and
// dropping anything that could not have been added.
func FromLines(lines []Line) *Ledger {
	l := New()
	for _, ln := range lines {
		_ = l.Add(ln.Item, ln.Quantity)
	}
	return l
}

// Add appends a line or, when the identifier is already present, increases
// its quantity.
func (l *Ledger) Add(item Item, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if item.ProductID == "" && item.ID == "" {
		return ErrMissingProductID
	}
	if item.ProductID == "" {
		item.ProductID = item.ID
	}
	if item.ID == "" {
		item.ID = LineID(item.ProductID, item.Size)
	}
	if i := l.index(item.ID); i >= 0 {
		l.lines[i].Quantity += qty
		return nil
	}
	l.lines = append(l.lines, Line{Item: item, Quantity: qty})
	return nil
}

// Remove is a no-op when the line is absent.
func (l *Ledger) Remove(id string) {
	if i := l.index(id); i >= 0 {
		l.lines = append(l.lines[:i], l.lines[i+1:]...)
	}
}

// UpdateQuantity sets the quantity of a line. Zero or less removes it.
// It reports whether the line existed.
func (l *Ledger) UpdateQuantity(id string, qty int) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	if qty <= 0 {
		l.Remove(id)
		return true
	}
	l.lines[i].Quantity = qty
	return true
}

// Clear drops every line.
func (l *Ledger) Clear() {
	l.lines = nil
}

// Total is unrounded.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, ln := range l.lines {
		total = total.Add(ln.Subtotal())
	}
	return total
}

// Lines returns a copy in insertion order.
func (l *Ledger) Lines() []Line {
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// Line returns the line with the given id.
func (l *Ledger) Line(id string) (Line, bool) {
	if i := l.index(id); i >= 0 {
		return l.lines[i], true
	}
	return Line{}, false
}

// Units is the number of pieces across all lines.
func (l *Ledger) Units() int {
	n := 0
	for _, ln := range l.lines {
		n += ln.Quantity
	}
	return n
}

// Len is the number of distinct lines, not units.
func (l *Ledger) Len() int { return len(l.lines) }

// IsEmpty reports whether the ledger has no lines.
func (l *Ledger) IsEmpty() bool { return len(l.lines) == 0 }

func (l *Ledger) index(id string) int {
	for i := range l.lines {
		if l.lines[i].ID == id {
			return i
		}
	}
	return -1
}
