// Package pricing derives order totals from the order lines and the menu.
//
// All arithmetic is exact decimal arithmetic. Nothing is rounded while
// computing; Round and FormatMoney round to cents at display time using
// half-away-from-zero, which for the non-negative amounts produced here is
// half-up.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"restaurant-pos/pos/menu"
	"restaurant-pos/pos/order"
	"restaurant-pos/pos/types"
)

// CurrencySymbol prefixes every formatted amount
const CurrencySymbol = "$"

// DefaultTaxRate is the house sales tax
var DefaultTaxRate = decimal.RequireFromString("0.07")

// ComputeTotals sums quantity × unit price per category, then applies tax to
// the grand subtotal. It has no side effects.
func ComputeTotals(c *menu.Catalog, lines order.LineReader, taxRate decimal.Decimal) types.OrderTotals {
	totals := types.OrderTotals{
		PerCategory: make(map[types.CategoryKey]decimal.Decimal, len(c.Categories)),
		Subtotal:    decimal.Zero,
	}

	for _, cat := range c.Categories {
		subtotal := decimal.Zero
		for i, item := range cat.Items {
			l, err := lines.Line(cat.Key, i)
			if err != nil {
				continue
			}
			subtotal = subtotal.Add(LineCost(l.Quantity, item.UnitPrice))
		}
		totals.PerCategory[cat.Key] = subtotal
		totals.Subtotal = totals.Subtotal.Add(subtotal)
	}

	totals.Tax = totals.Subtotal.Mul(taxRate)
	totals.Total = totals.Subtotal.Add(totals.Tax)
	return totals
}

// LineCost is the unrounded cost of one line
func LineCost(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// ValidateTaxRate rejects rates outside [0, 1]
func ValidateTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return &types.ValidationError{Msg: fmt.Sprintf("tax rate %s must be in [0, 1]", rate)}
	}
	return nil
}

// Round rounds an amount to cents
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatMoney renders an amount as currency with two decimals
func FormatMoney(d decimal.Decimal) string {
	return CurrencySymbol + d.StringFixed(2)
}

// FormatTaxPercent renders a rate as a whole percentage, 0.07 -> "7"
func FormatTaxPercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(0)
}
