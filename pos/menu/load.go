package menu

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"restaurant-pos/pos/types"
)

type fileMenu struct {
	Categories []fileCategory `yaml:"categories"`
}

type fileCategory struct {
	Key         string     `yaml:"key"`
	DisplayName string     `yaml:"display_name"`
	Items       []fileItem `yaml:"items"`
}

type fileItem struct {
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
}

// Load reads a menu from a YAML file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML menu
func Parse(data []byte) (*Catalog, error) {
	var fm fileMenu
	if err := yaml.Unmarshal(data, &fm); err != nil {
		return nil, &types.ValidationError{Msg: fmt.Sprintf("decode menu: %v", err)}
	}

	c := &Catalog{}
	for _, fc := range fm.Categories {
		key, err := types.ParseCategoryKey(fc.Key)
		if err != nil {
			return nil, err
		}
		cat := types.MenuCategory{Key: key, DisplayName: fc.DisplayName}
		for _, fi := range fc.Items {
			price, err := decimal.NewFromString(fi.Price)
			if err != nil {
				return nil, &types.ValidationError{Msg: fmt.Sprintf("item %s: invalid price %q", fi.Name, fi.Price)}
			}
			cat.Items = append(cat.Items, types.MenuItem{Name: fi.Name, UnitPrice: price})
		}
		c.Categories = append(c.Categories, cat)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
