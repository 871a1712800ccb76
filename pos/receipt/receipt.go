// Package receipt builds and renders the plain-text receipt. The layout is a
// stored format: saved receipts are compared byte for byte, so column widths,
// separators and the tab runs in the summary block must not change.
package receipt

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-pos/pos/menu"
	"restaurant-pos/pos/order"
	"restaurant-pos/pos/pricing"
	"restaurant-pos/pos/types"
)

const (
	// MinNumber and MaxNumber bound receipt numbers
	MinNumber = 1000
	MaxNumber = 9999

	// TimestampLayout is the header date format, day first
	TimestampLayout = "02/01/2006 - 15:04:05"

	lineWidth = 54
	footer    = "Please come again"
)

// NewNumber draws a receipt number in [MinNumber, MaxNumber]
func NewNumber(r *rand.Rand) int {
	return MinNumber + r.Intn(MaxNumber-MinNumber+1)
}

// FileName is the default export name for a receipt
func FileName(number int) string {
	return fmt.Sprintf("receipt-%d.txt", number)
}

// Build collects the lines with a positive quantity in menu order and pairs
// them with the supplied totals.
func Build(c *menu.Catalog, lines order.LineReader, totals types.OrderTotals, taxRate decimal.Decimal, number int, ts time.Time) types.Receipt {
	r := types.Receipt{
		Number:    number,
		Timestamp: ts,
		TaxRate:   taxRate,
		Totals:    totals,
	}

	for _, cat := range c.Categories {
		r.Categories = append(r.Categories, types.CategorySummary{Key: cat.Key, DisplayName: cat.DisplayName})
		for i, item := range cat.Items {
			l, err := lines.Line(cat.Key, i)
			if err != nil || !l.Quantity.IsPositive() {
				continue
			}
			r.Lines = append(r.Lines, types.ReceiptLine{
				ItemName:     item.Name,
				Quantity:     l.Quantity,
				QuantityText: l.Entry,
				Cost:         pricing.LineCost(l.Quantity, item.UnitPrice),
			})
		}
	}
	return r
}

// summaryTabs reproduces the tab runs of the stored format: the desserts
// line is one tab shorter whatever its display name.
func summaryTabs(key types.CategoryKey) string {
	if key == types.Desserts {
		return "\t\t\t"
	}
	return "\t\t\t\t"
}

// Format renders r as text. It performs no I/O.
func Format(r types.Receipt) string {
	var b strings.Builder
	rule := func(ch string) {
		b.WriteString(strings.Repeat(ch, lineWidth))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Data: %-20s %s\n", "N# - "+strconv.Itoa(r.Number), r.Timestamp.Format(TimestampLayout))
	rule("=")
	fmt.Fprintf(&b, "%-20s %-10s %10s\n", "Item", "QTY", "Cost")
	rule("-")

	for _, l := range r.Lines {
		qty := l.QuantityText
		if qty == "" {
			qty = l.Quantity.String()
		}
		fmt.Fprintf(&b, "%-20s%-10s%s\n", l.ItemName, qty, pricing.FormatMoney(l.Cost))
	}

	rule("-")
	for _, cat := range r.Categories {
		label := "Cost of " + cat.DisplayName + ":"
		fmt.Fprintf(&b, "%s %s%s\n", label, summaryTabs(cat.Key), pricing.FormatMoney(r.Totals.Category(cat.Key)))
	}
	rule("-")
	fmt.Fprintf(&b, "Subtotal: \t\t\t\t%s\n", pricing.FormatMoney(r.Totals.Subtotal))
	fmt.Fprintf(&b, "Tax (%s%%): \t\t\t\t%s\n", pricing.FormatTaxPercent(r.TaxRate), pricing.FormatMoney(r.Totals.Tax))
	fmt.Fprintf(&b, "Total: \t\t\t\t%s\n", pricing.FormatMoney(r.Totals.Total))
	rule("-")
	b.WriteString(footer)

	return b.String()
}
