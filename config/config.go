package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Built-in source defaults.
const (
	DefaultCountryListURL = "https://en.wikipedia.org/wiki/ISO_3166-1"
	DefaultSubdivisionURL = "https://en.wikipedia.org/wiki/ISO_3166-2:%s"

	defaultRequestDelayMS = 1000

	defaultCountryKeyColumn     = "Alpha-2 code"
	defaultSubdivisionKeyColumn = "Code"

	footerTableTitle = "List of ISO 3166 country codes"
)

// CellRule marks a table for exclusion when the cell at (Row, Col) of its
// raw grid equals Value.
type CellRule struct {
	Row   int    `yaml:"row"`
	Col   int    `yaml:"col"`
	Value string `yaml:"value"`
}

// CountryOverride adjusts table handling for a single alpha-2 code.
type CountryOverride struct {
	KeyColumn     string            `yaml:"key_column"`
	RenameColumns map[string]string `yaml:"rename_columns"`
}

// Config represents the scrape configuration
type Config struct {
	Source struct {
		CountryListURL string `yaml:"country_list_url"`
		SubdivisionURL string `yaml:"subdivision_url"` // format string, %s is the alpha-2 code
		RequestDelayMS int    `yaml:"request_delay_ms"`
	} `yaml:"source"`

	Tables struct {
		CountryKeyColumn     string     `yaml:"country_key_column"`
		SubdivisionKeyColumn string     `yaml:"subdivision_key_column"`
		ExcludeCells         []CellRule `yaml:"exclude_cells"`
	} `yaml:"tables"`

	// RenameColumns maps raw or cleaned header spellings to canonical
	// field names. Empty by default: headers pass through unchanged.
	RenameColumns map[string]string `yaml:"rename_columns"`

	// CountryOverrides keys on alpha-2 codes whose subdivision pages need
	// special handling.
	CountryOverrides map[string]CountryOverride `yaml:"country_overrides"`
}

// LoadConfig loads configuration from a YAML file. Fields absent from the
// file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// GetDefaultConfig returns the built-in configuration
func GetDefaultConfig() *Config {
	cfg := &Config{
		RenameColumns:    map[string]string{},
		CountryOverrides: map[string]CountryOverride{},
	}
	cfg.Source.CountryListURL = DefaultCountryListURL
	cfg.Source.SubdivisionURL = DefaultSubdivisionURL
	cfg.Source.RequestDelayMS = defaultRequestDelayMS
	cfg.Tables.CountryKeyColumn = defaultCountryKeyColumn
	cfg.Tables.SubdivisionKeyColumn = defaultSubdivisionKeyColumn
	// The site-wide footer navigation parses as a table on most pages;
	// its title can land in the first or second grid row.
	cfg.Tables.ExcludeCells = []CellRule{
		{Row: 0, Col: 1, Value: footerTableTitle},
		{Row: 1, Col: 1, Value: footerTableTitle},
	}
	return cfg
}

// RequestDelay returns the configured delay between consecutive requests.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.Source.RequestDelayMS) * time.Millisecond
}

// SubdivisionPageURL builds the detail page URL for an alpha-2 code.
func (c *Config) SubdivisionPageURL(alpha2 string) string {
	return fmt.Sprintf(c.Source.SubdivisionURL, alpha2)
}
