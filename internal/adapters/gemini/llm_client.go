package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/prompt"
)

// GeminiClient is an implementation of the LLMClient interface using Google
// Gemini. Gemini always uses the standard request shape with a JSON
// response MIME type.
type GeminiClient struct {
	client          *genai.Client
	model           *genai.GenerativeModel
	modelName       string
	builder         *prompt.Builder
	includeExamples bool
	logger          *zap.Logger
}

// NewGeminiClient creates a new Gemini classification client.
func NewGeminiClient(
	client *genai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	builder *prompt.Builder,
	includeExamples bool,
	logger *zap.Logger,
) *GeminiClient {
	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(builder.SystemPrompt())},
	}

	return &GeminiClient{
		client:          client,
		model:           model,
		modelName:       modelName,
		builder:         builder,
		includeExamples: includeExamples,
		logger:          logger,
	}
}

// Close closes the Gemini client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ClassifyEmail classifies a single email via the Gemini API.
func (c *GeminiClient) ClassifyEmail(ctx context.Context, email *core.Email) (*core.Classification, error) {
	messages := c.builder.BuildMessages(email, c.includeExamples)

	// The system turn is carried by the model's system instruction; the
	// remaining turns are flattened into one text part.
	var sb strings.Builder
	for _, msg := range messages {
		if msg.Role == prompt.RoleSystem {
			continue
		}
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, core.ErrEmptyResponse
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	if strings.TrimSpace(responseText) == "" {
		return nil, core.ErrEmptyResponse
	}

	return core.ParseClassification(responseText)
}
