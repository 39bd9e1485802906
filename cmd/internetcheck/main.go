package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/v0xg/internetcheck/internal/config"
)

var (
	baseURL     string
	timeout     time.Duration
	loadBudget  time.Duration
	headless    bool
	width       int
	height      int
	browserBin  string
	controlURL  string
	uploadFile  string
	downloadDir string
	recordDir   string
	runPattern  string
	scripts     []string
	verbose     bool

	addr     string
	output   string
	provider string
	model    string
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "internetcheck",
		Short: "Browser checks for the-internet demo site",
		Long: `internetcheck drives a real browser through login, navigation, form,
upload, download and error-page checks against the-internet demo site
(or a compatible deployment) and reports which ones pass.

Example:
  internetcheck run --run 'login|logout' --record ./gifs`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&baseURL, "base-url", config.DefaultBaseURL, "Site under test")
	pf.DurationVar(&timeout, "timeout", 10*time.Second, "Bound for element lookups and waits")
	pf.BoolVar(&headless, "headless", true, "Run the browser without a window")
	pf.IntVar(&width, "width", 1280, "Viewport width")
	pf.IntVar(&height, "height", 800, "Viewport height")
	pf.StringVar(&browserBin, "browser-bin", "", "Chrome/Chromium binary (looked up when empty)")
	pf.StringVar(&controlURL, "control-url", "", "DevTools URL of a running browser to connect to")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log every step")

	rootCmd.AddCommand(newRunCmd(), newListCmd(), newServeCmd(), newDraftCmd())
	return rootCmd
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			apply()
		}
	}
	set("base-url", func() { cfg.BaseURL = baseURL })
	set("timeout", func() { cfg.Timeout = timeout })
	set("load-budget", func() { cfg.LoadBudget = loadBudget })
	set("headless", func() { cfg.Headless = headless })
	set("width", func() { cfg.Width = width })
	set("height", func() { cfg.Height = height })
	set("browser-bin", func() { cfg.BrowserBin = browserBin })
	set("control-url", func() { cfg.ControlURL = controlURL })
	set("upload-file", func() { cfg.UploadFile = uploadFile })
	set("download-dir", func() { cfg.DownloadDir = downloadDir })
	set("record", func() { cfg.RecordDir = recordDir })
	set("verbose", func() { cfg.Verbose = verbose })
	verbose = cfg.Verbose

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
