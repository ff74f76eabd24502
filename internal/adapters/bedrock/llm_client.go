package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/prompt"
)

// BedrockClient is an implementation of the LLMClient interface using
// Amazon Bedrock. The invocation payload depends on the model family.
type BedrockClient struct {
	client          *bedrockruntime.Client
	modelID         string
	maxTokens       int
	temperature     float32
	topP            float32
	builder         *prompt.Builder
	includeExamples bool
	logger          *zap.Logger
}

// NewBedrockClient creates a new Bedrock classification client.
func NewBedrockClient(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	builder *prompt.Builder,
	includeExamples bool,
	logger *zap.Logger,
) *BedrockClient {
	return &BedrockClient{
		client:          client,
		modelID:         modelID,
		maxTokens:       maxTokens,
		temperature:     temperature,
		topP:            topP,
		builder:         builder,
		includeExamples: includeExamples,
		logger:          logger,
	}
}

// ClassifyEmail classifies a single email via the Bedrock API.
func (c *BedrockClient) ClassifyEmail(ctx context.Context, email *core.Email) (*core.Classification, error) {
	messages := c.builder.BuildMessages(email, c.includeExamples)

	var payload []byte
	var err error

	if c.isAnthropicModel() {
		payload, err = c.anthropicPayload(messages)
	} else if c.isAmazonTitanModel() {
		payload, err = c.titanPayload(messages)
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt.JoinForSingleInput(messages),
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	responseText, err := c.extractText(resp.Body)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(responseText) == "" {
		return nil, core.ErrEmptyResponse
	}

	return core.ParseClassification(responseText)
}

// anthropicPayload builds the Anthropic messages-API request. The system
// turn maps to the dedicated system field; user/assistant turns map
// directly onto the messages array.
func (c *BedrockClient) anthropicPayload(messages []prompt.Message) ([]byte, error) {
	system := ""
	turns := make([]map[string]string, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == prompt.RoleSystem {
			system = msg.Content
			continue
		}
		turns = append(turns, map[string]string{
			"role":    msg.Role,
			"content": msg.Content,
		})
	}

	return json.Marshal(map[string]interface{}{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens":        c.maxTokens,
		"temperature":       c.temperature,
		"top_p":             c.topP,
		"system":            system,
		"messages":          turns,
	})
}

// titanPayload builds the Amazon Titan request from a flattened prompt.
func (c *BedrockClient) titanPayload(messages []prompt.Message) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"inputText": prompt.JoinForSingleInput(messages),
		"textGenerationConfig": map[string]interface{}{
			"maxTokenCount": c.maxTokens,
			"temperature":   c.temperature,
			"topP":          c.topP,
		},
	})
}

// extractText pulls the generated text out of the model-family-specific
// response body.
func (c *BedrockClient) extractText(body []byte) (string, error) {
	if c.isAnthropicModel() {
		var claudeResp struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		if len(claudeResp.Content) == 0 {
			return "", core.ErrEmptyResponse
		}
		return claudeResp.Content[0].Text, nil
	}

	if c.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", core.ErrEmptyResponse
		}
		return titanResp.Results[0].OutputText, nil
	}

	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	switch {
	case genericResp.Output != "":
		return genericResp.Output, nil
	case genericResp.Text != "":
		return genericResp.Text, nil
	case genericResp.Response != "":
		return genericResp.Response, nil
	}
	return string(body), nil
}

// isAnthropicModel checks if the model is an Anthropic Claude model.
func (c *BedrockClient) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model.
func (c *BedrockClient) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}
