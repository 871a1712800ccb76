package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryKey identifies one of the menu groupings
type CategoryKey int

const (
	Food CategoryKey = iota
	Drinks
	Desserts

	// CategoryCount is the number of declared categories
	CategoryCount = 3
)

// AllCategories returns the category keys in declaration order
func AllCategories() []CategoryKey {
	return []CategoryKey{Food, Drinks, Desserts}
}

func (k CategoryKey) String() string {
	switch k {
	case Food:
		return "food"
	case Drinks:
		return "drinks"
	case Desserts:
		return "desserts"
	default:
		return fmt.Sprintf("category(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared categories
func (k CategoryKey) Valid() bool {
	return k >= Food && k <= Desserts
}

// ParseCategoryKey maps the text form back to a key
func ParseCategoryKey(s string) (CategoryKey, error) {
	for _, k := range AllCategories() {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, &ValidationError{Msg: fmt.Sprintf("unknown category %q", s)}
}

func (k CategoryKey) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown category %d", int(k))}
	}
	return []byte(k.String()), nil
}

func (k *CategoryKey) UnmarshalText(text []byte) error {
	parsed, err := ParseCategoryKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MenuItem is a single priced entry on the menu
type MenuItem struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// MenuCategory groups menu items; item order is display and receipt order
type MenuCategory struct {
	Key         CategoryKey `json:"key"`
	DisplayName string      `json:"display_name"`
	Items       []MenuItem  `json:"items"`
}

// OrderLine is the selection and quantity state of one menu item.
// An unselected line always has a zero quantity.
type OrderLine struct {
	Selected      bool            `json:"selected"`
	Quantity      decimal.Decimal `json:"quantity"`
	AwaitingEntry bool            `json:"awaiting_entry"`
	// Entry is the quantity text as typed, set while Quantity is positive
	Entry         string          `json:"entry,omitempty"`
}

// Editable reports whether the quantity field for this line accepts input
func (l OrderLine) Editable() bool {
	return l.Selected
}

// OrderTotals holds amounts derived from the order lines; nothing here is rounded
type OrderTotals struct {
	PerCategory map[CategoryKey]decimal.Decimal `json:"per_category"`
	Subtotal    decimal.Decimal                 `json:"subtotal"`
	Tax         decimal.Decimal                 `json:"tax"`
	Total       decimal.Decimal                 `json:"total"`
}

// Category returns the subtotal for key, zero when absent
func (t OrderTotals) Category(key CategoryKey) decimal.Decimal {
	return t.PerCategory[key]
}

// ReceiptLine is one printed item row
type ReceiptLine struct {
	ItemName     string          `json:"item_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	// QuantityText is what the cashier typed; empty falls back to Quantity
	QuantityText string          `json:"quantity_text,omitempty"`
	Cost         decimal.Decimal `json:"cost"`
}

// CategorySummary names a category in the receipt summary block
type CategorySummary struct {
	Key         CategoryKey `json:"key"`
	DisplayName string      `json:"display_name"`
}

// Receipt is a snapshot of a completed order, built fresh on every request
type Receipt struct {
	Number     int               `json:"number"`
	Timestamp  time.Time         `json:"timestamp"`
	TaxRate    decimal.Decimal   `json:"tax_rate"`
	Lines      []ReceiptLine     `json:"lines"`
	Categories []CategorySummary `json:"categories"`
	Totals     OrderTotals       `json:"totals"`
}

// SelectionSignal is the payload for toggling an item on or off
type SelectionSignal struct {
	Category CategoryKey
	Index    int
	Selected bool
}

// QuantitySignal is the payload for live quantity field input
type QuantitySignal struct {
	Category CategoryKey
	Index    int
	Text     string
}

// ExportSignal asks the session to export its last receipt
type ExportSignal struct {
	Destination string
}

// SessionStatus represents the current state of an order session
type SessionStatus struct {
	SessionID   string
	Stage       string
	Lines       map[CategoryKey][]OrderLine
	Totals      *OrderTotals
	ReceiptText string
	Exported    []string
	LastError   string
	IdleSince   time.Time
}
