// Package order holds the mutable selection and quantity state of one order
// session. Lines exist for every menu item from creation; they are changed
// only through ToggleSelection, SetQuantity and Reset.
package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"restaurant-pos/pos/menu"
	"restaurant-pos/pos/types"
)

// LineReader is the read-only view pricing and receipts work from
type LineReader interface {
	Line(key types.CategoryKey, index int) (types.OrderLine, error)
}

// State owns the order lines of a session. It is not safe for concurrent use;
// callers serialise access per session.
type State struct {
	lines [types.CategoryCount][]types.OrderLine
}

// NewState creates one unselected, zero-quantity line per catalog item
func NewState(c *menu.Catalog) *State {
	s := &State{}
	for _, cat := range c.Categories {
		if !cat.Key.Valid() {
			continue
		}
		s.lines[cat.Key] = make([]types.OrderLine, len(cat.Items))
	}
	return s
}

func (s *State) line(key types.CategoryKey, index int) (*types.OrderLine, error) {
	if !key.Valid() || index < 0 || index >= len(s.lines[key]) {
		return nil, &types.UnknownItemError{Category: key, Index: index}
	}
	return &s.lines[key][index], nil
}

// ToggleSelection selects or deselects an item. Selecting an item with a zero
// quantity leaves it awaiting entry; deselecting forces the quantity to zero.
func (s *State) ToggleSelection(key types.CategoryKey, index int, selected bool) error {
	l, err := s.line(key, index)
	if err != nil {
		return err
	}

	if selected {
		l.Selected = true
		if l.Quantity.IsZero() {
			l.AwaitingEntry = true
		}
		return nil
	}

	*l = types.OrderLine{}
	return nil
}

// SetQuantity applies live quantity input. Empty, unparsable, negative and
// out-of-range text all become zero; input on an unselected line is ignored.
// An accepted entry keeps its text for the receipt.
func (s *State) SetQuantity(key types.CategoryKey, index int, raw string) error {
	l, err := s.line(key, index)
	if err != nil {
		return err
	}

	l.AwaitingEntry = false
	l.Entry = ""
	if !l.Selected {
		l.Quantity = decimal.Zero
		return nil
	}
	l.Quantity = ParseQuantity(raw)
	if l.Quantity.IsPositive() {
		l.Entry = strings.TrimSpace(raw)
	}
	return nil
}

const (
	// quantities keep at most this many decimal places
	minQuantityExponent = -8
	maxQuantityExponent = 6
)

// MaxQuantity is the largest quantity a line accepts
var MaxQuantity = decimal.NewFromInt(100000)

// ParseQuantity reads a quantity field, coercing anything invalid to zero
func ParseQuantity(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	q, err := decimal.NewFromString(raw)
	if err != nil || q.IsNegative() {
		return decimal.Zero
	}
	// exponent first: comparing 1e2000000000 against MaxQuantity rescales it
	if exp := q.Exponent(); exp < minQuantityExponent || exp > maxQuantityExponent {
		return decimal.Zero
	}
	if q.GreaterThan(MaxQuantity) {
		return decimal.Zero
	}
	return q
}

// Reset deselects every line and zeroes every quantity
func (s *State) Reset() {
	for k := range s.lines {
		for i := range s.lines[k] {
			s.lines[k][i] = types.OrderLine{}
		}
	}
}

// Restore replaces the lines with a snapshot taken from a State over the same
// catalog. Unselected lines are cleared and bad quantities become zero, so a
// restored State keeps the same guarantees as one built by edits.
func (s *State) Restore(snapshot map[types.CategoryKey][]types.OrderLine) error {
	for k, lines := range snapshot {
		if !k.Valid() || len(lines) != len(s.lines[k]) {
			return &types.ValidationError{Msg: fmt.Sprintf("snapshot does not match the menu for category %s", k)}
		}
	}
	for _, k := range types.AllCategories() {
		lines, ok := snapshot[k]
		for i := range s.lines[k] {
			if !ok || !lines[i].Selected {
				s.lines[k][i] = types.OrderLine{}
				continue
			}
			l := lines[i]
			if l.Quantity.IsNegative() {
				l.Quantity = decimal.Zero
			}
			if !l.Quantity.IsPositive() {
				l.Entry = ""
			}
			s.lines[k][i] = l
		}
	}
	return nil
}

// Line returns a copy of one line
func (s *State) Line(key types.CategoryKey, index int) (types.OrderLine, error) {
	l, err := s.line(key, index)
	if err != nil {
		return types.OrderLine{}, err
	}
	return *l, nil
}

// Lines returns a copy of the lines of one category, in menu order
func (s *State) Lines(key types.CategoryKey) []types.OrderLine {
	if !key.Valid() {
		return nil
	}
	out := make([]types.OrderLine, len(s.lines[key]))
	copy(out, s.lines[key])
	return out
}

// Snapshot copies every line, keyed by category
func (s *State) Snapshot() map[types.CategoryKey][]types.OrderLine {
	out := make(map[types.CategoryKey][]types.OrderLine, types.CategoryCount)
	for _, k := range types.AllCategories() {
		out[k] = s.Lines(k)
	}
	return out
}
