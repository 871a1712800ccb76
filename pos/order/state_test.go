package order

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/pos/menu"
	"restaurant-pos/pos/types"
)

func TestNewState_AllLinesEmpty(t *testing.T) {
	s := NewState(menu.Default())

	for _, k := range types.AllCategories() {
		lines := s.Lines(k)
		require.Len(t, lines, 8)
		for i, l := range lines {
			assert.False(t, l.Selected, "%s[%d]", k, i)
			assert.True(t, l.Quantity.IsZero(), "%s[%d]", k, i)
		}
	}
}

func TestToggleSelection_OnAwaitsEntry(t *testing.T) {
	s := NewState(menu.Default())

	require.NoError(t, s.ToggleSelection(types.Food, 0, true))
	l, err := s.Line(types.Food, 0)
	require.NoError(t, err)
	assert.True(t, l.Selected)
	assert.True(t, l.AwaitingEntry)
	assert.True(t, l.Editable())
	assert.True(t, l.Quantity.IsZero())

	require.NoError(t, s.SetQuantity(types.Food, 0, "3"))
	l, _ = s.Line(types.Food, 0)
	assert.False(t, l.AwaitingEntry)
	assert.Equal(t, "3", l.Quantity.String())

	// Re-selecting keeps an entered quantity.
	require.NoError(t, s.ToggleSelection(types.Food, 0, true))
	l, _ = s.Line(types.Food, 0)
	assert.Equal(t, "3", l.Quantity.String())
	assert.False(t, l.AwaitingEntry)
}

func TestToggleSelection_OffForcesZero(t *testing.T) {
	s := NewState(menu.Default())

	require.NoError(t, s.ToggleSelection(types.Drinks, 2, true))
	require.NoError(t, s.SetQuantity(types.Drinks, 2, "5"))
	require.NoError(t, s.ToggleSelection(types.Drinks, 2, false))

	l, _ := s.Line(types.Drinks, 2)
	assert.False(t, l.Selected)
	assert.False(t, l.Editable())
	assert.True(t, l.Quantity.IsZero())
}

func TestSetQuantity_Forgiving(t *testing.T) {
	testCases := []struct {
		raw  string
		want string
	}{
		{"3", "3"},
		{" 2.5 ", "2.5"},
		{"", "0"},
		{"abc", "0"},
		{"-4", "0"},
		{"1,5", "0"},
		{"0", "0"},
		{"1e2000000000", "0"},
		{"1e-2000000000", "0"},
		{"100000", "100000"},
		{"100000.5", "0"},
		{"0.00000001", "0.00000001"},
		{"0.000000001", "0"},
		{"2e3", "2000"},
	}

	s := NewState(menu.Default())
	require.NoError(t, s.ToggleSelection(types.Desserts, 1, true))

	for _, tc := range testCases {
		require.NoError(t, s.SetQuantity(types.Desserts, 1, tc.raw))
		l, _ := s.Line(types.Desserts, 1)
		assert.Equal(t, tc.want, l.Quantity.String(), "raw %q", tc.raw)
	}
}

func TestSetQuantity_KeepsEnteredText(t *testing.T) {
	s := NewState(menu.Default())
	require.NoError(t, s.ToggleSelection(types.Food, 2, true))

	require.NoError(t, s.SetQuantity(types.Food, 2, " 03 "))
	l, _ := s.Line(types.Food, 2)
	assert.Equal(t, "03", l.Entry)
	assert.Equal(t, "3", l.Quantity.String())

	require.NoError(t, s.SetQuantity(types.Food, 2, "nope"))
	l, _ = s.Line(types.Food, 2)
	assert.Empty(t, l.Entry)

	require.NoError(t, s.SetQuantity(types.Food, 2, "1.50"))
	require.NoError(t, s.ToggleSelection(types.Food, 2, false))
	l, _ = s.Line(types.Food, 2)
	assert.Equal(t, types.OrderLine{}, l)
}

func TestSetQuantity_UnselectedStaysZero(t *testing.T) {
	s := NewState(menu.Default())

	require.NoError(t, s.SetQuantity(types.Food, 3, "7"))
	l, _ := s.Line(types.Food, 3)
	assert.False(t, l.Selected)
	assert.True(t, l.Quantity.IsZero())
}

func TestState_UnknownItem(t *testing.T) {
	s := NewState(menu.Default())

	var unknown *types.UnknownItemError
	assert.True(t, errors.As(s.ToggleSelection(types.Food, 8, true), &unknown))
	assert.True(t, errors.As(s.SetQuantity(types.CategoryKey(7), 0, "1"), &unknown))
	_, err := s.Line(types.Drinks, -1)
	assert.True(t, errors.As(err, &unknown))
}

func TestReset_Idempotent(t *testing.T) {
	s := NewState(menu.Default())
	require.NoError(t, s.ToggleSelection(types.Food, 0, true))
	require.NoError(t, s.SetQuantity(types.Food, 0, "3"))

	s.Reset()
	first := s.Snapshot()
	s.Reset()
	assert.Equal(t, first, s.Snapshot())

	for _, k := range types.AllCategories() {
		for _, l := range first[k] {
			assert.Equal(t, types.OrderLine{}, l)
		}
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	c := menu.Default()
	s := NewState(c)
	require.NoError(t, s.ToggleSelection(types.Food, 0, true))
	require.NoError(t, s.SetQuantity(types.Food, 0, "3"))
	require.NoError(t, s.ToggleSelection(types.Drinks, 4, true))

	restored := NewState(c)
	require.NoError(t, restored.Restore(s.Snapshot()))
	assert.Equal(t, s.Snapshot(), restored.Snapshot())
}

func TestRestore_Normalises(t *testing.T) {
	c := menu.Default()
	snap := NewState(c).Snapshot()
	snap[types.Food][1] = types.OrderLine{Quantity: decimal.NewFromInt(5), Entry: "5"}
	snap[types.Food][2] = types.OrderLine{Selected: true, Quantity: decimal.NewFromInt(-2), Entry: "-2"}

	s := NewState(c)
	require.NoError(t, s.Restore(snap))

	l, _ := s.Line(types.Food, 1)
	assert.Equal(t, types.OrderLine{}, l)
	l, _ = s.Line(types.Food, 2)
	assert.True(t, l.Selected)
	assert.True(t, l.Quantity.IsZero())
	assert.Empty(t, l.Entry)
}

func TestRestore_RejectsMismatchedSnapshot(t *testing.T) {
	s := NewState(menu.Default())
	err := s.Restore(map[types.CategoryKey][]types.OrderLine{types.Food: make([]types.OrderLine, 3)})

	var invalid *types.ValidationError
	assert.True(t, errors.As(err, &invalid))
}

// Any sequence of edits keeps unselected lines at zero.
func TestState_RandomEditsKeepLinesConsistent(t *testing.T) {
	s := NewState(menu.Default())
	r := rand.New(rand.NewSource(42))
	inputs := []string{"1", "2.5", "", "x", "-3", "10"}

	for step := 0; step < 2000; step++ {
		k := types.AllCategories()[r.Intn(types.CategoryCount)]
		i := r.Intn(8)
		switch r.Intn(3) {
		case 0:
			require.NoError(t, s.ToggleSelection(k, i, r.Intn(2) == 0))
		case 1:
			require.NoError(t, s.SetQuantity(k, i, inputs[r.Intn(len(inputs))]))
		case 2:
			if r.Intn(50) == 0 {
				s.Reset()
			}
		}

		for _, ck := range types.AllCategories() {
			for idx, l := range s.Lines(ck) {
				if !l.Selected {
					require.True(t, l.Quantity.IsZero(), "step %d: %s[%d] unselected with quantity %s", step, ck, idx, l.Quantity)
				}
				require.False(t, l.Quantity.IsNegative())
				if !l.Quantity.IsPositive() {
					require.Empty(t, l.Entry, "step %d: %s[%d]", step, ck, idx)
				}
			}
		}
	}
}
