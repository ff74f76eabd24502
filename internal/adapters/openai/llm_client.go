package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/prompt"
)

// classificationSchema is the response schema bound to standard-shape
// requests so the model returns exactly the five classification fields.
var classificationSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"category": {"type": "string"},
		"priority": {"type": "integer", "minimum": 1, "maximum": 5},
		"labels": {"type": "array", "items": {"type": "string"}},
		"reasoning": {"type": "string"},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1}
	},
	"required": ["category", "priority", "labels", "reasoning", "confidence"],
	"additionalProperties": false
}`)

// OpenAIClient is an implementation of the LLMClient interface using OpenAI.
// The request shape is fixed at construction: standard chat completion with
// schema binding, or the compact single-input form for reasoning models.
type OpenAIClient struct {
	client          *openai.Client
	builder         *prompt.Builder
	cfg             config.OpenAIConfig
	includeExamples bool
	logger          *zap.Logger
}

// NewOpenAIClient creates a new OpenAI classification client.
func NewOpenAIClient(
	client *openai.Client,
	builder *prompt.Builder,
	cfg config.OpenAIConfig,
	includeExamples bool,
	logger *zap.Logger,
) *OpenAIClient {
	return &OpenAIClient{
		client:          client,
		builder:         builder,
		cfg:             cfg,
		includeExamples: includeExamples,
		logger:          logger,
	}
}

// ClassifyEmail classifies a single email via the OpenAI API.
func (c *OpenAIClient) ClassifyEmail(ctx context.Context, email *core.Email) (*core.Classification, error) {
	messages := c.builder.BuildMessages(email, c.includeExamples)

	var req openai.ChatCompletionRequest
	if c.cfg.RequestShape == config.ShapeReasoningCompact {
		req = c.reasoningRequest(messages)
	} else {
		req = c.standardRequest(messages)
	}

	resp, err := c.createWithRetry(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, core.ErrEmptyResponse
	}
	choice := resp.Choices[0]

	// Reasoning models report whether generation ran to completion; a
	// truncated response cannot be trusted as a classification.
	if c.cfg.RequestShape == config.ShapeReasoningCompact && choice.FinishReason != openai.FinishReasonStop {
		c.logger.Warn("Reasoning model response incomplete",
			zap.String("email_id", email.ID),
			zap.String("finish_reason", string(choice.FinishReason)))
		return nil, fmt.Errorf("%w: finish reason %q", core.ErrIncompleteResponse, choice.FinishReason)
	}

	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return nil, core.ErrEmptyResponse
	}

	return core.ParseClassification(content)
}

// standardRequest builds the chat-style structured-output request: role
// message array, sampling parameters, schema-bound response format.
func (c *OpenAIClient) standardRequest(messages []prompt.Message) openai.ChatCompletionRequest {
	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	return openai.ChatCompletionRequest{
		Model:       c.cfg.ModelName,
		Messages:    chatMessages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		TopP:        c.cfg.TopP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "email_classification",
				Schema: classificationSchema,
				Strict: true,
			},
		},
	}
}

// reasoningRequest builds the compact request for reasoning-family models:
// all turns concatenated into one user input, completion-token budget
// instead of max tokens, and no sampling temperature.
func (c *OpenAIClient) reasoningRequest(messages []prompt.Message) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: c.cfg.ModelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.JoinForSingleInput(messages),
			},
		},
		MaxCompletionTokens: c.cfg.MaxTokens,
		ReasoningEffort:     "low",
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
}

// createWithRetry issues the request with a small fixed retry budget for
// transient transport failures. Non-transient errors are returned as is.
func (c *OpenAIClient) createWithRetry(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	var resp openai.ChatCompletionResponse
	var err error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("Retrying OpenAI request",
				zap.Int("attempt", attempt),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return resp, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		resp, err = c.client.CreateChatCompletion(ctx, req)
		if err == nil || !isTransient(err) {
			return resp, err
		}
	}

	return resp, err
}

// isTransient reports whether an error is worth one more attempt: rate
// limiting, server-side failures and request timeouts.
func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	return errors.Is(err, context.DeadlineExceeded)
}
