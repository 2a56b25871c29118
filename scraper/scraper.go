// Package scraper walks the country code reference pages and assembles
// validated country records with their subdivisions.
package scraper

import (
	"fmt"
	"log/slog"

	"iso3166-scraper/config"
	"iso3166-scraper/fetcher"
	"iso3166-scraper/models"
	"iso3166-scraper/normalize"
	"iso3166-scraper/parser"
)

// Candidate column names for record fields, matched against cleaned
// headers exact-first, then by substring.
var (
	countryNameColumns     = []string{"english_short_name", "country_name", "name"}
	alpha2Columns          = []string{"alpha_2_code", "alpha_2"}
	alpha3Columns          = []string{"alpha_3_code", "alpha_3"}
	numericColumns         = []string{"numeric_code", "numeric"}
	subdivisionCodeColumns = []string{"code"}
	subdivisionNameColumns = []string{"subdivision_name", "name"}
	categoryColumns        = []string{"subdivision_category", "category"}
)

// Scraper runs the scrape pipeline against one fetcher and configuration
type Scraper struct {
	fetcher fetcher.Fetcher
	cfg     *config.Config
}

// NewScraper creates a new Scraper instance
func NewScraper(f fetcher.Fetcher, cfg *config.Config) *Scraper {
	return &Scraper{fetcher: f, cfg: cfg}
}

// Run fetches the top-level country table and then every country's
// subdivision page, returning countries in source-page order. A failure on
// the top-level page aborts the run; a failure on a single country's page
// leaves that country with an empty subdivision list and continues.
func (s *Scraper) Run() ([]models.Country, error) {
	table, err := s.fetchTable(s.cfg.Source.CountryListURL, s.cfg.Tables.CountryKeyColumn, s.cfg.RenameColumns)
	if err != nil {
		return nil, err
	}

	countries := s.buildCountries(table)
	slog.Info("country table extracted", "countries", len(countries))

	for i := range countries {
		code := countries[i].Alpha2
		slog.Info("retrieving subdivisions", "code", code)

		subdivisions, err := s.subdivisions(code)
		if err != nil {
			slog.Warn("subdivision scrape failed, keeping empty list", "code", code, "err", err)
			continue
		}
		countries[i].Subdivisions = subdivisions
		slog.Debug("subdivisions extracted", "code", code, "count", len(subdivisions))
	}

	return countries, nil
}

// fetchTable retrieves a page, picks the table with the key column and
// returns it with cleaned column names.
func (s *Scraper) fetchTable(url, keyColumn string, renames map[string]string) (parser.Table, error) {
	body, err := s.fetcher.Fetch(url)
	if err != nil {
		return parser.Table{}, err
	}

	tables, err := parser.ExtractTables(body, s.excludeRules())
	if err != nil {
		return parser.Table{}, err
	}

	table, err := parser.FindTable(tables, keyColumn)
	if err != nil {
		return parser.Table{}, fmt.Errorf("%s: %w", url, err)
	}

	// Rename twice so mappings can target raw or cleaned spellings.
	return table.RenameColumns(func(col string) string {
		col = normalize.Canonical(col, renames)
		col = normalize.Header(col)
		return normalize.Canonical(col, renames)
	}), nil
}

// buildCountries converts top-level table rows into validated records.
// Rows with malformed codes are logged and skipped, never corrected.
func (s *Scraper) buildCountries(table parser.Table) []models.Country {
	nameCol, _ := table.Column(countryNameColumns...)
	alpha2Col, _ := table.Column(alpha2Columns...)
	alpha3Col, _ := table.Column(alpha3Columns...)
	numericCol, _ := table.Column(numericColumns...)

	countries := make([]models.Country, 0, len(table.Rows))
	for _, row := range table.Rows {
		country := models.Country{
			Name:         row[nameCol],
			Alpha2:       row[alpha2Col],
			Alpha3:       row[alpha3Col],
			Numeric:      row[numericCol],
			Subdivisions: []models.Subdivision{},
		}
		if err := country.ValidateCodes(); err != nil {
			slog.Warn("skipping row with malformed codes", "name", country.Name, "err", err)
			continue
		}
		countries = append(countries, country)
	}
	return countries
}

// subdivisions fetches one country's detail page and extracts its
// subdivision rows in page order.
func (s *Scraper) subdivisions(alpha2 string) ([]models.Subdivision, error) {
	keyColumn := s.cfg.Tables.SubdivisionKeyColumn
	renames := s.cfg.RenameColumns
	if override, ok := s.cfg.CountryOverrides[alpha2]; ok {
		if override.KeyColumn != "" {
			keyColumn = override.KeyColumn
		}
		if len(override.RenameColumns) > 0 {
			merged := make(map[string]string, len(renames)+len(override.RenameColumns))
			for k, v := range renames {
				merged[k] = v
			}
			for k, v := range override.RenameColumns {
				merged[k] = v
			}
			renames = merged
		}
	}

	table, err := s.fetchTable(s.cfg.SubdivisionPageURL(alpha2), keyColumn, renames)
	if err != nil {
		return nil, err
	}

	codeCol, ok := table.Column(subdivisionCodeColumns...)
	if !ok {
		codeCol, ok = table.Column(normalize.Header(keyColumn))
	}
	if !ok && len(table.Columns) > 0 {
		codeCol = table.Columns[0]
	}
	nameCol, _ := table.Column(subdivisionNameColumns...)
	categoryCol, _ := table.Column(categoryColumns...)

	subdivisions := make([]models.Subdivision, 0, len(table.Rows))
	for _, row := range table.Rows {
		subdivision := models.Subdivision{
			Code:     row[codeCol],
			Name:     row[nameCol],
			Category: row[categoryCol],
		}
		if subdivision.Code == "" {
			continue
		}
		subdivisions = append(subdivisions, subdivision)
	}
	return subdivisions, nil
}

func (s *Scraper) excludeRules() []parser.ExcludeRule {
	rules := make([]parser.ExcludeRule, len(s.cfg.Tables.ExcludeCells))
	for i, cell := range s.cfg.Tables.ExcludeCells {
		rules[i] = parser.ExcludeRule{Row: cell.Row, Col: cell.Col, Value: cell.Value}
	}
	return rules
}
