package config

// CatalogConfig points at the item definitions
type CatalogConfig struct {
	// YAML file with the buildable items; the built-in catalog is used when empty
	Path string `mapstructure:"path"`
}
