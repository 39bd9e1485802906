package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/v0xg/internetcheck/internal/browser"
	"github.com/v0xg/internetcheck/internal/draft"
)

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft <path> <prompt>",
		Short: "Draft a scenario script for a page with an AI model",
		Long: `draft opens the page, collects its interactive elements and asks the
model to turn the prompt into a JSON scenario script for "run --script".

Example:
  internetcheck draft /login "log in with a wrong password and expect an error" -o wrong_password.json`,
		Args: cobra.ExactArgs(2),
		RunE: draftScript,
	}
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "Write the script here instead of stdout")
	f.StringVar(&provider, "provider", "", "AI provider: claude, openai (default: from env or claude)")
	f.StringVar(&model, "model", "", "Specific model override")
	return cmd
}

func draftScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	target := args[0]
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.TrimLeft(target, "/")
	}

	selected := provider
	if selected == "" {
		selected = os.Getenv("INTERNETCHECK_DEFAULT_PROVIDER")
		if selected == "" {
			selected = "claude"
		}
	}
	p, err := draft.NewProvider(selected, model)
	if err != nil {
		return fmt.Errorf("AI provider init failed: %w", err)
	}

	sess, err := browser.Launch(cmd.Context(), browser.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Headless:   cfg.Headless,
		Timeout:    cfg.Timeout,
		BrowserBin: cfg.BrowserBin,
		ControlURL: cfg.ControlURL,
	})
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	defer sess.Close()

	log.Info().Str("url", target).Msg("inspecting page")
	if err := sess.Navigate(target); err != nil {
		return err
	}
	pm, err := sess.Inspect()
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}
	log.Debug().Int("elements", len(pm.Elements)).Int("links", len(pm.Navigation)).Msg("page inspected")

	log.Info().Str("provider", selected).Msg("drafting script")
	script, err := p.Draft(cmd.Context(), pm, args[1])
	if err != nil {
		return fmt.Errorf("drafting failed: %w", err)
	}

	data, err := json.MarshalIndent(script, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	log.Info().Str("file", output).Int("steps", len(script.Steps)).Msg("script written")
	return nil
}
