package knapsack

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"knapsackga/internal/model"
)

const (
	CatalogThings     = "things"
	CatalogMoreThings = "more_things"
	DefaultCatalog    = CatalogMoreThings
)

var ErrUnknownCatalog = errors.New("unknown catalog")

var things = []model.Item{
	{Name: "Laptop", Value: 500, Weight: 2200},
	{Name: "Headphones", Value: 150, Weight: 160},
	{Name: "Coffee Mug", Value: 60, Weight: 350},
	{Name: "Notepad", Value: 40, Weight: 333},
	{Name: "Water Bottle", Value: 30, Weight: 192},
}

var moreThings = append([]model.Item{
	{Name: "Mints", Value: 5, Weight: 25},
	{Name: "Socks", Value: 10, Weight: 38},
	{Name: "Tissues", Value: 15, Weight: 80},
	{Name: "Phone", Value: 500, Weight: 200},
	{Name: "Baseball Cap", Value: 100, Weight: 70},
}, things...)

var builtin = map[string][]model.Item{
	CatalogThings:     things,
	CatalogMoreThings: moreThings,
}

// Catalog returns a copy of a built-in catalog.
func Catalog(name string) ([]model.Item, error) {
	items, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCatalog, name)
	}
	return append([]model.Item(nil), items...), nil
}

func CatalogNames() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type catalogFile struct {
	Items []model.Item `json:"items" toml:"items"`
}

// LoadCatalog reads items from a .toml or .json file. Both forms hold a
// top-level "items" list of {name, value, weight}; JSON may also be a bare
// array.
func LoadCatalog(path string) ([]model.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file catalogFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &file); err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", path, err)
		}
	case ".json":
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "[") {
			err = json.Unmarshal(data, &file.Items)
		} else {
			err = json.Unmarshal(data, &file)
		}
		if err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", path)
	}

	if err := ValidateItems(file.Items); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return file.Items, nil
}

func ValidateItems(items []model.Item) error {
	if len(items) == 0 {
		return errors.New("catalog has no items")
	}
	for i, item := range items {
		if item.Name == "" {
			return fmt.Errorf("item %d: name is required", i)
		}
		if item.Weight < 0 || item.Value < 0 {
			return fmt.Errorf("item %d (%s): value and weight must be >= 0", i, item.Name)
		}
	}
	return nil
}
