package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"iso3166-scraper/config"
	"iso3166-scraper/fetcher"
	"iso3166-scraper/output"
	"iso3166-scraper/scraper"
)

func main() {
	// Parse command line arguments
	outputPath := flag.String("output-file-path", "./data/iso_3166.json", "Path of the JSON file to write the scraped data to")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	cfg := loadConfig("config.yaml")

	f := fetcher.NewCollyFetcher(cfg.RequestDelay())
	countries, err := scraper.NewScraper(f, cfg).Run()
	if err != nil {
		fatal("scraping failed", err)
	}

	slog.Info("writing file", "path", *outputPath)
	if err := output.NewWriter(*outputPath).WriteCountries(countries); err != nil {
		fatal("failed to write output file", err)
	}

	slog.Info("done scraping data for all countries", "countries", len(countries))
}

// loadConfig loads configuration from file or returns defaults
func loadConfig(configPath string) *config.Config {
	if _, err := os.Stat(configPath); err != nil {
		slog.Info("config file not found, using default configuration")
		return config.GetDefaultConfig()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Warn("failed to load config file, using defaults", "err", err)
		return config.GetDefaultConfig()
	}
	return cfg
}

// fatal logs an unrecoverable error and exits with a non-zero status.
func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
