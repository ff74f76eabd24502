package bedrock

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/prompt"
	"github.com/mikey/llm-mail-triage/internal/utils"
)

// Factory creates new instances of BedrockClient.
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	taxonomy      *core.Taxonomy
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for BedrockClient instances.
func NewFactory(cfg *config.Config, logger *zap.Logger, taxonomy *core.Taxonomy, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		taxonomy:      taxonomy,
		textProcessor: textProcessor,
	}
}

// CreateLLMClient creates a new BedrockClient.
func (f *Factory) CreateLLMClient() (core.LLMClient, error) {
	bedrockCfg := f.cfg.GetBedrock()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(bedrockCfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	builder := prompt.NewBuilder(f.taxonomy, f.textProcessor, bedrockCfg.MaxBodySize)

	f.logger.Info("Initialized Bedrock client",
		zap.String("model_id", bedrockCfg.ModelID),
		zap.String("region", bedrockCfg.Region))

	return NewBedrockClient(
		bedrockruntime.NewFromConfig(awsCfg),
		bedrockCfg.ModelID,
		bedrockCfg.MaxTokens,
		bedrockCfg.Temperature,
		bedrockCfg.TopP,
		builder,
		f.cfg.GetClassification().IncludeExamples,
		f.logger,
	), nil
}
