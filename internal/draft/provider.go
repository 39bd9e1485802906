// Package draft asks a language model to turn a page description and a
// plain-language request into a scenario script.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/v0xg/internetcheck/internal/browser"
	"github.com/v0xg/internetcheck/internal/scenario"
)

// Provider drafts scripts from a page map
type Provider interface {
	Draft(ctx context.Context, pm *browser.PageMap, prompt string) (*scenario.Script, error)
}

// NewProvider creates a provider by name
func NewProvider(name, model string) (Provider, error) {
	switch name {
	case "claude", "anthropic":
		return NewClaudeProvider(model)
	case "openai", "gpt":
		return NewOpenAIProvider(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: claude, openai)", name)
	}
}

// apiKey returns the first non-empty variable.
func apiKey(vars ...string) (string, error) {
	for _, v := range vars {
		if key := os.Getenv(v); key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf("%s environment variable required", strings.Join(vars, " or "))
}

func userMessage(pm *browser.PageMap, prompt string) (string, error) {
	data, err := json.MarshalIndent(pm, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal page map: %w", err)
	}
	return buildUserPrompt(string(data), prompt), nil
}

// parseScriptJSON pulls the first JSON object out of a reply that may be
// wrapped in prose or a code fence.
func parseScriptJSON(response string) (*scenario.Script, error) {
	if s, err := scenario.ParseScript([]byte(response)); err == nil {
		return s, nil
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	inString, escaped := false, false
	end := -1
scan:
	for i := start; i < len(response); i++ {
		c := response[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				end = i + 1
				break scan
			}
		}
	}
	if end == -1 {
		return nil, fmt.Errorf("no matching closing brace found")
	}

	return scenario.ParseScript([]byte(response[start:end]))
}
