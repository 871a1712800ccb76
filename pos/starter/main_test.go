package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/pos/menu"
	"restaurant-pos/pos/types"
)

func TestParseItems(t *testing.T) {
	items, err := parseItems(menu.Default(), "food:Ramen=3, drinks:Water=2,Mochi")
	require.NoError(t, err)

	assert.Equal(t, []orderItem{
		{Category: types.Food, Index: 0, Quantity: "3"},
		{Category: types.Drinks, Index: 0, Quantity: "2"},
		{Category: types.Food, Index: 5, Quantity: "1"},
	}, items)
}

func TestParseItems_Errors(t *testing.T) {
	for _, in := range []string{"food:Nope=1", "drinks:Ramen=1", "snacks:Ramen=1"} {
		_, err := parseItems(menu.Default(), in)
		assert.Error(t, err, in)
	}
}

func TestParseItems_Empty(t *testing.T) {
	items, err := parseItems(menu.Default(), " , ")
	require.NoError(t, err)
	assert.Empty(t, items)
}
