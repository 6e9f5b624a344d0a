package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/starport-go/internal/domain/production"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

type itemFile struct {
	Items []itemDef `yaml:"items"`
}

type itemDef struct {
	Name           string    `yaml:"name"`
	ProductionType string    `yaml:"production_type"`
	Cost           int       `yaml:"cost"`
	BuildTicks     int       `yaml:"build_ticks"`
	BuildLimit     int       `yaml:"build_limit"`
	SelfPropelled  bool      `yaml:"self_propelled"`
	Stock          *stockDef `yaml:"stock"`
}

type stockDef struct {
	Initial        int `yaml:"initial"`
	Max            int `yaml:"max"`
	ReplenishTicks int `yaml:"replenish_ticks"`
	Chance         int `yaml:"chance"`
}

// Default returns the built-in starport catalog
func Default() (*production.Catalog, error) {
	return ParseItems(defaultCatalog)
}

// LoadItems reads an item catalog file, or the built-in catalog when path is empty
func LoadItems(path string) (*production.Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := ParseItems(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseItems decodes a YAML item list into a validated catalog
func ParseItems(data []byte) (*production.Catalog, error) {
	var file itemFile
	if err := decodeStrict(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(file.Items) == 0 {
		return nil, fmt.Errorf("catalog has no items")
	}

	items := make([]production.Item, 0, len(file.Items))
	for _, def := range file.Items {
		item := production.Item{
			Name:           def.Name,
			ProductionType: def.ProductionType,
			Cost:           def.Cost,
			BuildTicks:     def.BuildTicks,
			BuildLimit:     def.BuildLimit,
			SelfPropelled:  def.SelfPropelled,
		}
		if def.Stock != nil {
			item.Stock = &production.StockSettings{
				Initial:        def.Stock.Initial,
				Max:            def.Stock.Max,
				ReplenishTicks: def.Stock.ReplenishTicks,
				Chance:         def.Stock.Chance,
			}
		}
		items = append(items, item)
	}
	return production.NewCatalog(items)
}

// decodeStrict rejects unknown keys so typos in data files surface as errors
func decodeStrict(data []byte, out interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
