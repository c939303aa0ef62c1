package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// completionPrefixes limit model listings to families usable for text
// generation.
var completionPrefixes = []string{"gpt-", "text-", "code-"}

// Client wraps the OpenAI API for completion requests and model listing.
type Client struct {
	client openai.Client
	model  string
}

// Usage mirrors the token usage block of a completion response.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// Completion is the answer to a generate request.
type Completion struct {
	Content string
	Usage   Usage
}

// NewClient builds a client from cfg. The base URL override exists for
// proxies and tests.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("no OpenAI API token configured (set openai_token or OPENAI_API_KEY)")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.Token)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{client: openai.NewClient(opts...), model: cfg.Model}, nil
}

// Complete sends the prompt and the context document as two user messages
// and returns the first choice. maxTokens caps the completion length when
// positive.
func (c *Client) Complete(ctx context.Context, prompt, contextText string, maxTokens int) (*Completion, error) {
	messages := []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)}
	if contextText != "" {
		messages = append(messages, openai.UserMessage(contextText))
	}

	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	logger.Debug("requesting completion", zap.String("model", c.model), zap.Int("max_tokens", maxTokens))
	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapAPIError("chat completion failed", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}
	return &Completion{
		Content: completion.Choices[0].Message.Content,
		Usage: Usage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		},
	}, nil
}

// ListModels returns the completion-capable model IDs, sorted ascending.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	iter := c.client.Models.ListAutoPaging(ctx)
	var ids []string
	for iter.Next() {
		model := iter.Current()
		if hasCompletionPrefix(model.ID) {
			ids = append(ids, model.ID)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, wrapAPIError("model listing failed", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func hasCompletionPrefix(id string) bool {
	for _, prefix := range completionPrefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

// wrapAPIError prefixes an SDK error, surfacing the HTTP status when the
// failure is an API response rather than a transport problem.
func wrapAPIError(operation string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: HTTP %d: %w", operation, apiErr.StatusCode, err)
	}
	return fmt.Errorf("%s: %w", operation, err)
}
