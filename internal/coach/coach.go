// Package coach is the language-model side of gymgpt: plain-language plan
// explanations, short coaching replies and model-generated workouts checked
// against the same enums the rule-based planner uses.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/claude/gymgpt/internal/models"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultModel is used when the configuration leaves the model empty.
const DefaultModel = "gpt-4.1-mini"

var (
	// ErrNotConfigured means no API key was provided.
	ErrNotConfigured = errors.New("language model not configured")
	// ErrEmptyResponse means the model returned no choices or no content.
	ErrEmptyResponse = errors.New("empty model response")
)

const (
	explainPrompt = "You are a concise strength coach. Explain the workout plan you are given in plain language: " +
		"why each exercise is there, how soreness changed it, and what the weight changes mean. " +
		"Keep it under 200 words. Do not add exercises."
	replyPrompt = "You are a supportive but direct strength coach. Answer in at most five sentences. " +
		"Use the recent training log when it is relevant and never give medical diagnoses."
)

// Config configures the OpenAI client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	// MaxRetries < 0 keeps the SDK default.
	MaxRetries int
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	client openai.Client
	model  string
	log    *slog.Logger
}

// New creates a Client, or returns ErrNotConfigured without an API key.
func New(cfg Config, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.MaxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: openai.NewClient(opts...), model: model, log: log}, nil
}

// Explain describes a plan (workout or week) in plain language.
func (c *Client) Explain(ctx context.Context, plan any) (string, error) {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding plan: %w", err)
	}
	return c.complete(ctx, "explain", openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(explainPrompt),
			openai.UserMessage("Plan:\n" + string(data)),
		},
		Temperature: openai.Float(0.6),
	})
}

// Reply answers a coaching question with the recent log as context.
func (c *Client) Reply(ctx context.Context, message string, recent []models.SetLogRow) (string, error) {
	user := message
	if summary := SummarizeLogs(recent, 20); summary != "" {
		user = "Recent sets:\n" + summary + "\n\nQuestion: " + message
	}
	return c.complete(ctx, "reply", openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(replyPrompt),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.7),
	})
}

func (c *Client) complete(ctx context.Context, op string, params openai.ChatCompletionNewParams) (string, error) {
	start := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		c.log.ErrorContext(ctx, "chat completion failed", "op", op, "model", c.model, "error", err)
		return "", fmt.Errorf("%s: chat completion: %w", op, err)
	}
	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	c.log.DebugContext(ctx, "chat completion",
		"op", op,
		"model", c.model,
		"prompt_tokens", completion.Usage.PromptTokens,
		"completion_tokens", completion.Usage.CompletionTokens,
		"duration", time.Since(start),
	)
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// SummarizeLogs renders up to limit sets as one line each, newest first.
func SummarizeLogs(rows []models.SetLogRow, limit int) string {
	if len(rows) > limit {
		rows = rows[:limit]
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "- %s %s: %d reps", r.LoggedAt.Format("2006-01-02"), r.Name, r.Reps)
		if r.WeightKg != nil {
			fmt.Fprintf(&b, " @ %g kg", *r.WeightKg)
		}
		if r.RIR != nil {
			fmt.Fprintf(&b, ", RIR %d", *r.RIR)
		}
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}
