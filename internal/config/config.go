package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultBaseURL is the public demo site the suite was written against.
const DefaultBaseURL = "https://the-internet.herokuapp.com"

// Config holds run settings. Values come from INTERNETCHECK_* environment
// variables and may be overridden by CLI flags.
type Config struct {
	BaseURL    string        `envconfig:"BASE_URL" default:"https://the-internet.herokuapp.com"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"10s"`
	LoadBudget time.Duration `envconfig:"LOAD_BUDGET" default:"3s"`

	Headless   bool   `envconfig:"HEADLESS" default:"true"`
	Width      int    `envconfig:"WIDTH" default:"1280"`
	Height     int    `envconfig:"HEIGHT" default:"800"`
	BrowserBin string `envconfig:"BROWSER_BIN"`
	ControlURL string `envconfig:"CONTROL_URL"`

	UploadFile  string `envconfig:"UPLOAD_FILE"`
	DownloadDir string `envconfig:"DOWNLOAD_DIR"`
	RecordDir   string `envconfig:"RECORD_DIR"`

	Verbose bool `envconfig:"VERBOSE" default:"false"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("INTERNETCHECK", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Validate reports the first setting that cannot drive a run.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing host", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.LoadBudget <= 0 {
		return fmt.Errorf("load budget must be positive, got %s", c.LoadBudget)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}
