package menu

import (
	"fmt"

	"github.com/shopspring/decimal"

	"restaurant-pos/pos/types"
)

// Catalog is the static menu for a session: every declared category, in
// declaration order, with its ordered items.
type Catalog struct {
	Categories []types.MenuCategory `json:"categories"`
}

// Category returns the category for key
func (c *Catalog) Category(key types.CategoryKey) (types.MenuCategory, bool) {
	for _, cat := range c.Categories {
		if cat.Key == key {
			return cat, true
		}
	}
	return types.MenuCategory{}, false
}

// Item returns the item at index within the category for key
func (c *Catalog) Item(key types.CategoryKey, index int) (types.MenuItem, error) {
	cat, ok := c.Category(key)
	if !ok || index < 0 || index >= len(cat.Items) {
		return types.MenuItem{}, &types.UnknownItemError{Category: key, Index: index}
	}
	return cat.Items[index], nil
}

// Find looks an item up by name, returning its category and index
func (c *Catalog) Find(name string) (types.CategoryKey, int, bool) {
	for _, cat := range c.Categories {
		for i, item := range cat.Items {
			if item.Name == name {
				return cat.Key, i, true
			}
		}
	}
	return 0, 0, false
}

// Validate checks that every declared category appears exactly once, in
// declaration order, and that no price is negative.
func (c *Catalog) Validate() error {
	keys := types.AllCategories()
	if len(c.Categories) != len(keys) {
		return &types.ValidationError{Msg: fmt.Sprintf("menu must define %d categories, got %d", len(keys), len(c.Categories))}
	}
	for i, cat := range c.Categories {
		if cat.Key != keys[i] {
			return &types.ValidationError{Msg: fmt.Sprintf("menu category %d must be %s, got %s", i+1, keys[i], cat.Key)}
		}
		if cat.DisplayName == "" {
			return &types.ValidationError{Msg: fmt.Sprintf("menu category %s has no display name", cat.Key)}
		}
		for _, item := range cat.Items {
			if item.Name == "" {
				return &types.ValidationError{Msg: fmt.Sprintf("menu category %s has an unnamed item", cat.Key)}
			}
			if item.UnitPrice.IsNegative() {
				return &types.ValidationError{Msg: fmt.Sprintf("item %s: price %s must not be negative", item.Name, item.UnitPrice)}
			}
		}
	}
	return nil
}

func items(names []string, prices []string) []types.MenuItem {
	out := make([]types.MenuItem, len(names))
	for i, name := range names {
		out[i] = types.MenuItem{Name: name, UnitPrice: decimal.RequireFromString(prices[i])}
	}
	return out
}

// Default returns the house menu
func Default() *Catalog {
	return &Catalog{
		Categories: []types.MenuCategory{
			{
				Key:         types.Food,
				DisplayName: "Food",
				Items: items(
					[]string{"Ramen", "Salmon", "Giyosas", "Sushi", "Hanbaga", "Mochi", "Onigiri", "Curry"},
					[]string{"1.32", "1.65", "2.31", "3.22", "1.22", "1.99", "2.05", "2.65"},
				),
			},
			{
				Key:         types.Drinks,
				DisplayName: "Drinks",
				Items: items(
					[]string{"Water", "Soda", "Juice", "Beer", "Wine", "Lemonade", "Soft Drink", "Chicha"},
					[]string{"0.25", "0.99", "1.21", "1.54", "1.08", "1.10", "2.00", "1.58"},
				),
			},
			{
				Key:         types.Desserts,
				DisplayName: "Desserts",
				Items: items(
					[]string{"Ice Cream", "Fruit", "Brownies", "Flan", "Mousse", "Tiramisu", "Cheesecake", "Cupcake"},
					[]string{"1.54", "1.68", "1.32", "1.97", "2.55", "2.14", "1.94", "1.74"},
				),
			},
		},
	}
}
