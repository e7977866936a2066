// Package config provides configuration loading and merging for the CLI and
// server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds every tunable of the tracker. All fields are optional;
// missing values fall back to Defaults, then to environment variables.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `json:"database_url,omitempty"`

	// Port is the HTTP listen port for serve mode.
	Port int `json:"port,omitempty"`

	// Postal defaults applied to resolved situs strings and placeholder
	// tax records.
	DefaultCity  string `json:"default_city,omitempty"`
	DefaultState string `json:"default_state,omitempty"`
	DefaultZip   string `json:"default_zip,omitempty"`

	// AssessorURLTemplate is the per-parcel lookup page; %s receives the
	// digits-only parcel number.
	AssessorURLTemplate string `json:"assessor_url_template,omitempty"`

	// Tax list sources.
	TaxListPageURL string `json:"tax_list_page_url,omitempty"`
	TaxListPDFURL  string `json:"tax_list_pdf_url,omitempty"` // pin a PDF, skipping discovery

	// NoticeSearchURL is the public notice search for the scrape command.
	NoticeSearchURL string `json:"notice_search_url,omitempty"`

	// ResolveLimit and ResolveConcurrency bound one resolve batch.
	ResolveLimit       int `json:"resolve_limit,omitempty"`
	ResolveConcurrency int `json:"resolve_concurrency,omitempty"`

	// SeedFile is loaded into an empty items table at startup.
	SeedFile string `json:"seed_file,omitempty"`

	// Verbose enables debug logging.
	Verbose bool `json:"verbose,omitempty"`
}

// Defaults returns the built-in configuration for the tracked county.
func Defaults() Config {
	return Config{
		Port:                8080,
		DefaultCity:         "Winnemucca",
		DefaultState:        "NV",
		DefaultZip:          "89445",
		AssessorURLTemplate: "https://www.humboldtcountynv.gov/assessor/parcel-detail?apn=%s",
		TaxListPageURL:      "https://www.humboldtcountynv.gov/213/Parcel-List",
		ResolveLimit:        25,
		ResolveConcurrency:  4,
		SeedFile:            "data/seed_tax_examples.json",
	}
}

// Load reads a JSON config file. Returns an error if the file cannot be
// read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// FromEnv overlays environment variables onto c. Only recognized, non-empty
// variables are applied.
func (c *Config) FromEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("ASSESSOR_URL_TEMPLATE"); v != "" {
		c.AssessorURLTemplate = v
	}
	if v := os.Getenv("TAX_LIST_PDF_URL"); v != "" {
		c.TaxListPDFURL = v
	}
	if v := os.Getenv("NOTICE_SEARCH_URL"); v != "" {
		c.NoticeSearchURL = v
	}
	if v := os.Getenv("SEED_FILE"); v != "" {
		c.SeedFile = v
	}
}

// Validate checks value ranges. Required fields are enforced later, at the
// point of use, since not every command needs every field.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.ResolveLimit < 0 {
		return fmt.Errorf("config error: 'resolve_limit' must be non-negative")
	}
	if c.ResolveConcurrency < 0 {
		return fmt.Errorf("config error: 'resolve_concurrency' must be non-negative")
	}
	if c.SeedFile != "" {
		if _, err := os.Stat(c.SeedFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("config error: cannot read seed file %s: %w", c.SeedFile, err)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. Bool fields are not merged since unset and false are
// indistinguishable; flags win for those.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.DefaultCity == "" {
		result.DefaultCity = defaults.DefaultCity
	}
	if result.DefaultState == "" {
		result.DefaultState = defaults.DefaultState
	}
	if result.DefaultZip == "" {
		result.DefaultZip = defaults.DefaultZip
	}
	if result.AssessorURLTemplate == "" {
		result.AssessorURLTemplate = defaults.AssessorURLTemplate
	}
	if result.TaxListPageURL == "" {
		result.TaxListPageURL = defaults.TaxListPageURL
	}
	if result.TaxListPDFURL == "" {
		result.TaxListPDFURL = defaults.TaxListPDFURL
	}
	if result.NoticeSearchURL == "" {
		result.NoticeSearchURL = defaults.NoticeSearchURL
	}
	if result.SeedFile == "" {
		result.SeedFile = defaults.SeedFile
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ResolveLimit == 0 {
		result.ResolveLimit = defaults.ResolveLimit
	}
	if result.ResolveConcurrency == 0 {
		result.ResolveConcurrency = defaults.ResolveConcurrency
	}

	return result
}
