// Package openai implements the LLMProvider interface on top of the
// OpenAI chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"agentmarketplace/llm/shared"
)

// Config holds OpenAI provider configuration.
type Config struct {
	APIKey  string
	BaseURL string
	OrgID   string
}

// Provider implements the unified LLMProvider interface for OpenAI.
type Provider struct {
	client *openai.Client
	config Config
}

// NewProvider creates a new OpenAI provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, &shared.ProviderError{
			Code:    shared.ErrAuth,
			Message: "API key is required",
		}
	}

	openaiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		openaiConfig.BaseURL = cfg.BaseURL
	}
	if cfg.OrgID != "" {
		openaiConfig.OrgID = cfg.OrgID
	}

	return &Provider{
		client: openai.NewClientWithConfig(openaiConfig),
		config: cfg,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return "openai" }

// CountTokens estimates token count for the given messages and model.
// Rough estimation only: ~4 characters per token plus formatting.
func (p *Provider) CountTokens(messages []shared.Message, model string) (int, error) {
	totalTokens := 0
	for _, msg := range messages {
		totalTokens += len(msg.Content) / 4
		totalTokens += 4
	}
	return totalTokens, nil
}

// Complete performs a completion request.
func (p *Provider) Complete(ctx context.Context, req *shared.CompletionRequest) (*shared.CompletionResponse, error) {
	if err := shared.ValidateCompletionRequest(req); err != nil {
		return nil, err
	}

	openaiReq, err := toOpenAIRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to convert request: %w", err)
	}

	resp, err := p.client.CreateChatCompletion(ctx, *openaiReq)
	if err != nil {
		return nil, normalizeOpenAIError(err)
	}

	return fromOpenAIResponse(resp), nil
}

// toOpenAIRequest converts a shared CompletionRequest to OpenAI format.
func toOpenAIRequest(req *shared.CompletionRequest) (*openai.ChatCompletionRequest, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)

	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	o := req.Options
	return &openai.ChatCompletionRequest{
		Model:       o.Model,
		Messages:    msgs,
		MaxTokens:   o.MaxTokens,
		Temperature: o.Temperature,
		TopP:        o.TopP,
		Stop:        o.Stop,
	}, nil
}

// fromOpenAIResponse converts an OpenAI response to the shared format.
func fromOpenAIResponse(resp openai.ChatCompletionResponse) *shared.CompletionResponse {
	out := &shared.CompletionResponse{
		Usage: shared.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Message.Content
		out.StopReason = string(resp.Choices[0].FinishReason)
	}
	return out
}

// normalizeOpenAIError maps OpenAI API errors to normalized codes.
func normalizeOpenAIError(err error) *shared.ProviderError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := shared.ErrUnknown
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			code = shared.ErrAuth
		case http.StatusTooManyRequests:
			code = shared.ErrRateLimited
		case http.StatusNotFound:
			code = shared.ErrModelNotFound
		case http.StatusBadRequest:
			code = shared.ErrInvalidRequest
		default:
			if apiErr.HTTPStatusCode >= 500 {
				code = shared.ErrUnavailable
			}
		}
		return &shared.ProviderError{
			Code:       code,
			Message:    apiErr.Message,
			HTTPStatus: apiErr.HTTPStatusCode,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &shared.ProviderError{
			Code:    shared.ErrTimeout,
			Message: err.Error(),
		}
	}
	return shared.NormalizeError(err)
}
