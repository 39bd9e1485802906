package draft

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/v0xg/internetcheck/internal/browser"
	"github.com/v0xg/internetcheck/internal/scenario"
)

// OpenAIProvider drafts scripts with OpenAI chat models
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider reads the API key from the environment.
func NewOpenAIProvider(model string) (*OpenAIProvider, error) {
	return newOpenAIProvider(model, "")
}

func newOpenAIProvider(model, baseURL string) (*OpenAIProvider, error) {
	key, err := apiKey("INTERNETCHECK_OPENAI_KEY", "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	cfg := openai.DefaultConfig(key)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if model == "" {
		model = "gpt-4o"
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (p *OpenAIProvider) Draft(ctx context.Context, pm *browser.PageMap, prompt string) (*scenario.Script, error) {
	msg, err := userMessage(pm, prompt)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: msg},
		},
		MaxTokens: 2048,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	text := resp.Choices[0].Message.Content
	script, err := parseScriptJSON(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAI response: %w\nResponse: %s", err, text)
	}
	return script, nil
}
