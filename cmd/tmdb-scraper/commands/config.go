package commands

import (
	"errors"
	"fmt"
	"os"
	"time"
	"tmdb-scraper/internal/scrapers/tmdb"
	"tmdb-scraper/pkg/configutil"
)

const (
	defaultConfigFile = "tmdb-scraper.json5"
	defaultOutputDir  = "."
	apiTokenEnv       = "TMDB_API_TOKEN"
)

// FileConfig is the shape of tmdb-scraper.json5, every field is optional.
type FileConfig struct {
	BaseURL  string `json:"base_url"`
	APIBase  string `json:"api_base"`
	APIToken string `json:"api_token"`
	// Pages is a page range like "1-5" or "1,3,7-8".
	Pages string `json:"pages"`
	// durations are written like "30s" or "2m"
	ListingTimeout  string `json:"listing_timeout"`
	DetailTimeout   string `json:"detail_timeout"`
	PolitenessDelay string `json:"politeness_delay"`
	OutputDir       string `json:"output_dir"`
	DumpDir         string `json:"dump_dir"`
}

// LoadFileConfig reads the config file at `path`. A missing file is only an
// error when it was asked for explicitly.
func LoadFileConfig(path string, explicit bool) (FileConfig, error) {
	cfg, err := configutil.ReadConfig[FileConfig](path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return FileConfig{}, nil
	}
	if err != nil {
		return FileConfig{}, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

func parseDuration(name, value string, out *time.Duration) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*out = d
	return nil
}

// Resolve applies the file config on top of the defaults, it returns the
// scraper config and the output directory.
func (f FileConfig) Resolve() (tmdb.Config, string, error) {
	cfg := tmdb.DefaultConfig()
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.APIBase != "" {
		cfg.APIBase = f.APIBase
	}
	cfg.APIToken = f.APIToken
	cfg.DumpDir = f.DumpDir
	if cfg.APIToken == "" {
		cfg.APIToken = os.Getenv(apiTokenEnv)
	}

	if f.Pages != "" {
		pages, err := tmdb.ParsePageRange(f.Pages)
		if err != nil {
			return tmdb.Config{}, "", err
		}
		cfg.Pages = pages
	}

	err := parseDuration("listing_timeout", f.ListingTimeout, &cfg.ListingTimeout)
	if err != nil {
		return tmdb.Config{}, "", err
	}
	err = parseDuration("detail_timeout", f.DetailTimeout, &cfg.DetailTimeout)
	if err != nil {
		return tmdb.Config{}, "", err
	}
	err = parseDuration("politeness_delay", f.PolitenessDelay, &cfg.PolitenessDelay)
	if err != nil {
		return tmdb.Config{}, "", err
	}

	err = cfg.Validate()
	if err != nil {
		return tmdb.Config{}, "", err
	}

	outputDir := f.OutputDir
	if outputDir == "" {
		outputDir = defaultOutputDir
	}
	return cfg, outputDir, nil
}
