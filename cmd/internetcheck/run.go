package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/v0xg/internetcheck/internal/browser"
	"github.com/v0xg/internetcheck/internal/config"
	"github.com/v0xg/internetcheck/internal/record"
	"github.com/v0xg/internetcheck/internal/scenario"
	"github.com/v0xg/internetcheck/internal/suite"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the checks against the site",
		Args:  cobra.NoArgs,
		RunE:  runChecks,
	}
	f := cmd.Flags()
	f.StringVar(&runPattern, "run", "", "Only run scenarios whose name matches this regular expression")
	f.StringSliceVar(&scripts, "script", nil, "JSON scenario scripts to run after the built-in suite")
	f.DurationVar(&loadBudget, "load-budget", 3*time.Second, "Page load budget for the load time check")
	f.StringVar(&uploadFile, "upload-file", "", "File to upload (a temporary one is generated when empty)")
	f.StringVar(&downloadDir, "download-dir", "", "Where downloads land (a temporary dir when empty)")
	f.StringVar(&recordDir, "record", "", "Write a GIF of every scenario into this directory")
	return cmd
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the scenarios in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := collectScenarios(config.Config{})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, sc := range scenarios {
				fmt.Fprintf(tw, "%s\t%s\n", sc.Name, sc.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringSliceVar(&scripts, "script", nil, "JSON scenario scripts to include")
	return cmd
}

// collectScenarios returns the built-in suite followed by any loaded scripts.
func collectScenarios(cfg config.Config) ([]scenario.Scenario, error) {
	scenarios := suite.Scenarios(suite.Options{
		LoadBudget:  cfg.LoadBudget,
		UploadFile:  cfg.UploadFile,
		DownloadDir: cfg.DownloadDir,
	})

	seen := make(map[string]bool, len(scenarios))
	for _, sc := range scenarios {
		seen[sc.Name] = true
	}
	for _, path := range scripts {
		s, err := scenario.LoadScript(path)
		if err != nil {
			return nil, err
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("%s: scenario %q already exists", path, s.Name)
		}
		seen[s.Name] = true
		scenarios = append(scenarios, s.Scenario())
	}
	return scenarios, nil
}

func runChecks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	var filter *regexp.Regexp
	if runPattern != "" {
		if filter, err = regexp.Compile(runPattern); err != nil {
			return fmt.Errorf("invalid --run pattern: %w", err)
		}
	}

	scenarios, err := collectScenarios(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("base_url", cfg.BaseURL).Int("scenarios", len(scenarios)).Msg("starting browser")
	sess, err := browser.Launch(ctx, browser.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Headless:   cfg.Headless,
		Timeout:    cfg.Timeout,
		BrowserBin: cfg.BrowserBin,
		ControlURL: cfg.ControlURL,
	})
	if err != nil {
		log.Error().Err(err).Msg("browser unavailable")
		return &exitError{code: 2, err: &scenario.EnvironmentError{Err: err}}
	}
	defer sess.Close()

	runner := &scenario.Runner{
		Session: sess,
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Timeout: cfg.Timeout,
		Log:     log,
		Filter:  filter,
	}
	if cfg.RecordDir != "" {
		rec, err := record.New(record.Options{Dir: cfg.RecordDir})
		if err != nil {
			return err
		}
		runner.Recorder = rec
		log.Info().Str("dir", cfg.RecordDir).Msg("recording scenarios")
	}

	report := runner.Run(ctx, scenarios)
	printReport(cmd, report)

	return exitStatus(ctx, report)
}

// exitStatus maps the outcome of a run to the process exit code.
func exitStatus(ctx context.Context, report *scenario.Report) error {
	switch {
	case ctx.Err() != nil:
		return &exitError{code: 130, err: context.Cause(ctx)}
	case report.Fatal != nil:
		return &exitError{code: 2, err: report.Fatal}
	case !report.OK():
		return &exitError{code: 1, err: fmt.Errorf("%d scenario(s) failed", report.Count(scenario.StatusFailed))}
	}
	return nil
}

func printReport(cmd *cobra.Command, report *scenario.Report) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, res := range report.Results {
		line := fmt.Sprintf("%s\t%s\t%s", strings.ToUpper(string(res.Status)), res.Name, res.Duration.Round(time.Millisecond))
		if res.Status == scenario.StatusFailed && res.Err != nil {
			line += "\t" + res.Err.Error()
		}
		fmt.Fprintln(tw, line)
	}
	_ = tw.Flush()
}
