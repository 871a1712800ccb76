package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/pos/menu"
	"restaurant-pos/pos/order"
	"restaurant-pos/pos/types"
)

func ramenAndWater(t *testing.T) (*menu.Catalog, *order.State) {
	t.Helper()
	c := menu.Default()
	s := order.NewState(c)

	require.NoError(t, s.ToggleSelection(types.Food, 0, true))
	require.NoError(t, s.SetQuantity(types.Food, 0, "3"))
	require.NoError(t, s.ToggleSelection(types.Drinks, 0, true))
	require.NoError(t, s.SetQuantity(types.Drinks, 0, "2"))
	return c, s
}

func TestComputeTotals_RamenAndWater(t *testing.T) {
	c, s := ramenAndWater(t)

	totals := ComputeTotals(c, s, DefaultTaxRate)

	assert.Equal(t, "$3.96", FormatMoney(totals.Category(types.Food)))
	assert.Equal(t, "$0.50", FormatMoney(totals.Category(types.Drinks)))
	assert.Equal(t, "$0.00", FormatMoney(totals.Category(types.Desserts)))
	assert.Equal(t, "$4.46", FormatMoney(totals.Subtotal))
	assert.Equal(t, "$0.31", FormatMoney(totals.Tax))
	assert.Equal(t, "$4.77", FormatMoney(totals.Total))

	// Tax is kept unrounded until display.
	assert.True(t, totals.Tax.Equal(decimal.RequireFromString("0.3122")), "tax %s", totals.Tax)
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("4.7722")), "total %s", totals.Total)
}

func TestComputeTotals_Idempotent(t *testing.T) {
	c, s := ramenAndWater(t)

	first := ComputeTotals(c, s, DefaultTaxRate)
	second := ComputeTotals(c, s, DefaultTaxRate)

	for _, k := range types.AllCategories() {
		assert.True(t, first.Category(k).Equal(second.Category(k)), "%s", k)
	}
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestComputeTotals_AfterResetAllZero(t *testing.T) {
	c, s := ramenAndWater(t)
	s.Reset()

	totals := ComputeTotals(c, s, DefaultTaxRate)
	for _, k := range types.AllCategories() {
		assert.True(t, totals.Category(k).IsZero(), "%s", k)
	}
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTotals_UnselectedContributesNothing(t *testing.T) {
	c, s := ramenAndWater(t)
	require.NoError(t, s.ToggleSelection(types.Food, 0, false))

	totals := ComputeTotals(c, s, DefaultTaxRate)
	assert.True(t, totals.Category(types.Food).IsZero())
	assert.Equal(t, "$0.50", FormatMoney(totals.Subtotal))
}

func TestComputeTotals_FractionalQuantities(t *testing.T) {
	c := menu.Default()
	s := order.NewState(c)
	require.NoError(t, s.ToggleSelection(types.Desserts, 4, true))
	require.NoError(t, s.SetQuantity(types.Desserts, 4, "1.5"))

	totals := ComputeTotals(c, s, decimal.Zero)
	// 1.5 × 2.55 = 3.825, shown half-up as 3.83
	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("3.825")))
	assert.Equal(t, "$3.83", FormatMoney(totals.Subtotal))
	assert.True(t, totals.Tax.IsZero())
}

func TestComputeTotals_ExtremeQuantityEntries(t *testing.T) {
	c := menu.Default()
	s := order.NewState(c)
	require.NoError(t, s.ToggleSelection(types.Food, 0, true))
	require.NoError(t, s.SetQuantity(types.Food, 0, "1e2000000000"))
	require.NoError(t, s.ToggleSelection(types.Food, 1, true))
	require.NoError(t, s.SetQuantity(types.Food, 1, "1e-2000000000"))
	require.NoError(t, s.ToggleSelection(types.Drinks, 0, true))
	require.NoError(t, s.SetQuantity(types.Drinks, 0, "100000"))

	done := make(chan types.OrderTotals, 1)
	go func() { done <- ComputeTotals(c, s, DefaultTaxRate) }()

	select {
	case totals := <-done:
		assert.Equal(t, "$0.00", FormatMoney(totals.Category(types.Food)))
		assert.Equal(t, "$25000.00", FormatMoney(totals.Category(types.Drinks)))
		assert.Equal(t, "$26750.00", FormatMoney(totals.Total))
	case <-time.After(5 * time.Second):
		t.Fatal("ComputeTotals did not return")
	}
}

func TestValidateTaxRate(t *testing.T) {
	for _, ok := range []string{"0", "0.07", "1"} {
		assert.NoError(t, ValidateTaxRate(decimal.RequireFromString(ok)), ok)
	}
	for _, bad := range []string{"-0.01", "1.5", "7"} {
		err := ValidateTaxRate(decimal.RequireFromString(bad))
		var validation *types.ValidationError
		assert.True(t, errors.As(err, &validation), bad)
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "7", FormatTaxPercent(DefaultTaxRate))
	assert.Equal(t, "13", FormatTaxPercent(decimal.RequireFromString("0.125")))
	assert.Equal(t, "$0.13", FormatMoney(decimal.RequireFromString("0.125")))
	assert.Equal(t, "0.13", Round(decimal.RequireFromString("0.125")).String())
}
