// Package llm talks to the text-generation service and turns its replies into
// exam documents.
package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Defaults for the generation service.
const (
	DefaultBaseURL   = "https://api.anthropic.com/v1"
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 8000
)

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
}

// New creates a new LLM client. Empty or zero arguments fall back to the defaults.
func New(baseURL, apiKey, modelName string, maxTokens int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimSuffix(baseURL, "/")
	return &Client{
		api:       openai.NewClientWithConfig(config),
		model:     modelName,
		maxTokens: maxTokens,
	}
}

// Model returns the model name sent with every request.
func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt as a single user message and returns the text of the
// reply. Failures are returned as *ServiceError. There are no retries.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", &ServiceError{Kind: ErrUpstreamOther, Message: "generation service returned no choices"}
	}

	text := replyText(resp.Choices[0].Message)
	slog.Debug("LLM response", "model", c.model, "length", len(text), "finish_reason", resp.Choices[0].FinishReason)
	return text, nil
}

// replyText concatenates the text parts of a reply in order. Plain string
// content is used when the reply has no parts.
func replyText(msg openai.ChatCompletionMessage) string {
	if len(msg.MultiContent) == 0 {
		return msg.Content
	}
	var sb strings.Builder
	for _, part := range msg.MultiContent {
		if part.Type == openai.ChatMessagePartTypeText {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// classify maps a transport or API error onto a ServiceError.
func classify(err error) *ServiceError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return serviceError(apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return serviceError(reqErr.HTTPStatusCode, reqErr.HTTPStatus, err)
	}
	return &ServiceError{Kind: ErrUpstreamOther, Message: err.Error(), Err: err}
}

func serviceError(status int, msg string, err error) *ServiceError {
	if msg == "" {
		msg = err.Error()
	}
	kind := ErrUpstreamOther
	switch status {
	case 401:
		kind = ErrUpstreamAuth
	case 400:
		kind = ErrUpstreamRejected
	}
	return &ServiceError{Kind: kind, StatusCode: status, Message: msg, Err: err}
}
