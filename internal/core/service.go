package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ClassificationService is the core engine that turns emails into validated
// classifications. It delegates the model call to an LLMClient and applies
// the taxonomy-dependent post-processing: priority boost, category
// validation and bounds clamping.
type ClassificationService struct {
	llmClient    LLMClient
	cache        ClassificationCache
	taxonomy     *Taxonomy
	logger       *zap.Logger
	cacheEnabled bool
}

// NewClassificationService creates a new classification service.
func NewClassificationService(
	llmClient LLMClient,
	cache ClassificationCache,
	taxonomy *Taxonomy,
	logger *zap.Logger,
	cacheEnabled bool,
) (*ClassificationService, error) {
	if taxonomy == nil || taxonomy.Len() == 0 {
		return nil, fmt.Errorf("classification service requires a non-empty taxonomy")
	}
	return &ClassificationService{
		llmClient:    llmClient,
		cache:        cache,
		taxonomy:     taxonomy,
		logger:       logger,
		cacheEnabled: cacheEnabled && cache != nil,
	}, nil
}

// Taxonomy returns the taxonomy this service classifies against.
func (s *ClassificationService) Taxonomy() *Taxonomy {
	return s.taxonomy
}

// Classify classifies a single email. Every failure is returned as a
// ClassificationError identifying the email; nothing is retried here beyond
// what the underlying client transport does itself.
func (s *ClassificationService) Classify(ctx context.Context, email *Email) (*Classification, error) {
	result, err := s.llmClient.ClassifyEmail(ctx, email)
	if err != nil {
		s.logger.Warn("Failed to classify email",
			zap.String("email_id", email.ID),
			zap.String("subject", email.Subject),
			zap.Error(err))
		return nil, &ClassificationError{EmailID: email.ID, Err: err}
	}
	if result == nil {
		return nil, &ClassificationError{EmailID: email.ID, Err: ErrEmptyResponse}
	}

	s.applyPriorityBoost(result)

	// An out-of-taxonomy category is model drift, not a failure. Substitute
	// the default category and keep going.
	if _, ok := s.taxonomy.Lookup(result.Category); !ok {
		s.logger.Warn("Model returned unknown category, substituting default",
			zap.String("email_id", email.ID),
			zap.String("category", result.Category),
			zap.String("default", s.taxonomy.Default().Name))
		result.Category = s.taxonomy.Default().Name
	}

	return result, nil
}

// ClassifyWithCache consults the cache before classifying and stores
// successful results. The second return value reports a cache hit.
func (s *ClassificationService) ClassifyWithCache(ctx context.Context, email *Email) (*Classification, bool, error) {
	if s.cacheEnabled {
		if cached, ok := s.cache.Get(email.ID); ok {
			s.logger.Debug("Cache hit for email", zap.String("email_id", email.ID))
			return cached, true, nil
		}
	}

	result, err := s.Classify(ctx, email)
	if err != nil {
		return nil, false, err
	}

	if s.cacheEnabled {
		s.cache.Put(email.ID, result)
	}

	return result, false, nil
}

// applyPriorityBoost adds the category's configured boost to the model
// priority and clamps the result to [1,5]. The lookup is case-insensitive
// and runs before category substitution, so a boost declared for the exact
// returned category still applies.
func (s *ClassificationService) applyPriorityBoost(c *Classification) {
	if cat, ok := s.taxonomy.Lookup(c.Category); ok && cat.PriorityBoost != 0 {
		c.Priority += cat.PriorityBoost
	}
	c.Priority = ClampPriority(c.Priority)
}

// ClampPriority bounds a priority value to the valid [1,5] range.
func ClampPriority(p int) int {
	if p < 1 {
		return 1
	}
	if p > 5 {
		return 5
	}
	return p
}

// ParseClassification parses model output strictly as the five-field
// classification shape. When the raw text is not pure JSON it falls back to
// the outermost brace-delimited region before giving up.
func ParseClassification(raw string) (*Classification, error) {
	data := []byte(raw)

	var c Classification
	if err := json.Unmarshal(data, &c); err != nil {
		start := bytes.IndexByte(data, '{')
		end := bytes.LastIndexByte(data, '}')
		if start < 0 || end <= start {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if err := json.Unmarshal(data[start:end+1], &c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	if err := validateClassification(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &c, nil
}

// validateClassification enforces the schema bounds of the classification
// shape. Labels beyond the allowed three are dropped rather than rejected.
func validateClassification(c *Classification) error {
	if c.Category == "" {
		return fmt.Errorf("missing category")
	}
	if c.Priority < 1 || c.Priority > 5 {
		return fmt.Errorf("priority %d out of range [1,5]", c.Priority)
	}
	if c.Confidence < 0.0 || c.Confidence > 1.0 {
		return fmt.Errorf("confidence %.2f out of range [0,1]", c.Confidence)
	}
	// Bounds are in characters, not bytes, so multibyte reasoning counts
	// the same as ASCII.
	if n := utf8.RuneCountInString(c.Reasoning); n < 10 || n > 500 {
		return fmt.Errorf("reasoning length %d out of range [10,500]", n)
	}
	if len(c.Labels) > 3 {
		c.Labels = c.Labels[:3]
	}
	return nil
}
