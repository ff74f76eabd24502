package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultConfig() *Config {
	return NewFromViper(NewEmptyViper())
}

func TestDefaults(t *testing.T) {
	cfg := newDefaultConfig()

	assert.Equal(t, "openai", cfg.GetLLM().Provider)
	assert.Equal(t, "mock", cfg.GetMailbox().Type)
	assert.Equal(t, "unlabeled", cfg.GetMailbox().FetchFilter)

	openaiCfg := cfg.GetOpenAI()
	assert.Equal(t, "gpt-4o-mini", openaiCfg.ModelName)
	assert.Equal(t, 4000, openaiCfg.MaxTokens)
	assert.Equal(t, 30*time.Second, openaiCfg.Timeout)
	assert.Equal(t, 2, openaiCfg.MaxRetries)
	assert.Equal(t, ShapeStandard, openaiCfg.RequestShape)

	classificationCfg := cfg.GetClassification()
	assert.True(t, classificationCfg.IncludeExamples)
	assert.Equal(t, 5, classificationCfg.Concurrency)
	assert.Equal(t, 100, classificationCfg.MaxEmailsPerRun)

	cacheCfg := cfg.GetCache()
	assert.Equal(t, "memory", cacheCfg.Type)
	assert.True(t, cacheCfg.Enabled)
	assert.Equal(t, 1000, cacheCfg.Capacity)
}

func TestDefaultTaxonomy(t *testing.T) {
	cfg := newDefaultConfig()

	taxonomy, err := cfg.GetTaxonomy()
	require.NoError(t, err)

	assert.Equal(t, 7, taxonomy.Len())
	assert.Equal(t, "Personal & Social", taxonomy.Default().Name)

	cat, ok := taxonomy.Lookup("Security & 2FA")
	require.True(t, ok)
	assert.Equal(t, 2, cat.PriorityBoost)

	cat, ok = taxonomy.Lookup("Work & Projects")
	require.True(t, ok)
	assert.Equal(t, 1, cat.PriorityBoost)
}

func TestGetTaxonomyOverride(t *testing.T) {
	v := NewEmptyViper()
	v.Set("categories", []map[string]interface{}{
		{"name": "Urgent", "description": "Needs action now", "priority_boost": 2},
		{"name": "Everything Else", "description": "The rest"},
	})
	cfg := NewFromViper(v)

	taxonomy, err := cfg.GetTaxonomy()
	require.NoError(t, err)
	assert.Equal(t, 2, taxonomy.Len())
	assert.Equal(t, "Urgent", taxonomy.Default().Name)
}

func TestGetTaxonomyRejectsDuplicates(t *testing.T) {
	v := NewEmptyViper()
	v.Set("categories", []map[string]interface{}{
		{"name": "Work"},
		{"name": "work"},
	})
	cfg := NewFromViper(v)

	_, err := cfg.GetTaxonomy()
	assert.Error(t, err)
}

func TestShapeForModel(t *testing.T) {
	prefixes := []string{"gpt-5", "o1", "o3"}

	tests := []struct {
		model string
		want  ModelRequestShape
	}{
		{"gpt-4o-mini", ShapeStandard},
		{"gpt-4.1", ShapeStandard},
		{"gpt-5-mini", ShapeReasoningCompact},
		{"gpt-5", ShapeReasoningCompact},
		{"o1-preview", ShapeReasoningCompact},
		{"o3-mini", ShapeReasoningCompact},
		{"gemini-pro", ShapeStandard},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shapeForModel(tt.model, prefixes), "model %s", tt.model)
	}
}

func TestRequestShapeFollowsConfiguredModel(t *testing.T) {
	v := NewEmptyViper()
	v.Set("openai.model_name", "gpt-5-mini")
	cfg := NewFromViper(v)

	assert.Equal(t, ShapeReasoningCompact, cfg.GetOpenAI().RequestShape)
}

func TestGetDuration(t *testing.T) {
	v := NewEmptyViper()
	v.Set("triage.interval", "5m")
	cfg := NewFromViper(v)

	d, err := cfg.GetDuration("triage.interval")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, d)

	v.Set("triage.interval", "not-a-duration")
	_, err = cfg.GetDuration("triage.interval")
	assert.Error(t, err)
}

func TestModelRequestShapeString(t *testing.T) {
	assert.Equal(t, "standard", ShapeStandard.String())
	assert.Equal(t, "reasoning-compact", ShapeReasoningCompact.String())
}
