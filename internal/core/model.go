package core

import (
	"time"
)

// Email represents a single message fetched from a mailbox. The triage core
// treats it as a read-only value; the mailbox adapter owns its lifecycle.
type Email struct {
	ID             string
	Subject        string
	Sender         string
	SenderName     string
	Recipient      string
	Date           time.Time
	BodyPreview    string
	BodyFull       string
	IsRead         bool
	HasAttachments bool
	ExistingLabels []string
}

// Body returns the full body when available, falling back to the preview.
func (e *Email) Body() string {
	if e.BodyFull != "" {
		return e.BodyFull
	}
	return e.BodyPreview
}

// Classification is the structured result produced for one email.
type Classification struct {
	Category   string   `json:"category"`
	Priority   int      `json:"priority"`
	Labels     []string `json:"labels"`
	Reasoning  string   `json:"reasoning"`
	Confidence float64  `json:"confidence"`
}

// CategoryDefinition describes one entry of the classification taxonomy.
type CategoryDefinition struct {
	Name          string   `mapstructure:"name"`
	Description   string   `mapstructure:"description"`
	Keywords      []string `mapstructure:"keywords"`
	PriorityBoost int      `mapstructure:"priority_boost"`
}

// BatchResult pairs an email with its classification. Classification is nil
// when the email could not be classified; Err then carries the reason.
type BatchResult struct {
	Email          *Email
	Classification *Classification
	Err            error
}

// BatchStats aggregates counters over one batch invocation. It is local to
// the batch and discarded afterwards.
type BatchStats struct {
	Total         int
	Successful    int
	Failed        int
	Skipped       int
	Categories    map[string]int
	ConfidenceSum float64
	Elapsed       time.Duration
}

// NewBatchStats creates an empty stats accumulator.
func NewBatchStats() *BatchStats {
	return &BatchStats{Categories: make(map[string]int)}
}

// AddSuccess records a successful classification.
func (s *BatchStats) AddSuccess(c *Classification) {
	s.Total++
	s.Successful++
	s.Categories[c.Category]++
	s.ConfidenceSum += c.Confidence
}

// AddFailure records a failed classification.
func (s *BatchStats) AddFailure() {
	s.Total++
	s.Failed++
}

// AddSkipped records an email that was not sent to the model.
func (s *BatchStats) AddSkipped() {
	s.Total++
	s.Skipped++
}

// AverageConfidence returns the mean confidence over successful results.
func (s *BatchStats) AverageConfidence() float64 {
	if s.Successful == 0 {
		return 0
	}
	return s.ConfidenceSum / float64(s.Successful)
}
