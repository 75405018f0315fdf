// Package llm is a thin chat-completions client used by the chat command
// and the streaming answer route.
package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel answers when no model is configured.
const DefaultModel = "gpt-4o-mini"

var ErrEmptyAnswer = errors.New("llm: empty answer")

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// System, when set, is sent before every question.
	System string
	// MaxRetries overrides the client's retry count when non-nil.
	MaxRetries *int
}

// Client answers single questions. It keeps no history.
type Client struct {
	client openai.Client
	model  string
	system string
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: api key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries != nil {
		opts = append(opts, option.WithMaxRetries(*cfg.MaxRetries))
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		client: openai.NewClient(opts...),
		model:  model,
		system: cfg.System,
	}, nil
}

func (c *Client) Model() string { return c.model }

func (c *Client) params(question string) openai.ChatCompletionNewParams {
	var msgs []openai.ChatCompletionMessageParamUnion
	if c.system != "" {
		msgs = append(msgs, openai.SystemMessage(c.system))
	}
	msgs = append(msgs, openai.UserMessage(question))
	return openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: msgs,
	}
}

// Answer returns the full reply to question.
func (c *Client) Answer(ctx context.Context, question string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.params(question))
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyAnswer
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream yields the reply to question as it is generated. A failure is
// yielded once and ends the sequence.
func (c *Client) Stream(ctx context.Context, question string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stream := c.client.Chat.Completions.NewStreaming(ctx, c.params(question))
		defer stream.Close()
		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if s := chunk.Choices[0].Delta.Content; s != "" {
				if !yield(s, nil) {
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			yield("", fmt.Errorf("llm: stream: %w", err))
		}
	}
}
