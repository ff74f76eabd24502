package mailbox

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/core"
)

// MockMailbox is an in-memory mailbox used when no real provider is
// configured. Label writes are recorded but go nowhere.
type MockMailbox struct {
	emails  []*core.Email
	applied map[string][]string
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewMockMailbox creates a mock mailbox with a fixed set of sample emails.
func NewMockMailbox(logger *zap.Logger) *MockMailbox {
	now := time.Now()
	return &MockMailbox{
		applied: make(map[string][]string),
		logger:  logger,
		emails: []*core.Email{
			{
				ID:          "mock-1",
				Subject:     "Your 2FA code is 123456",
				Sender:      "noreply@google.com",
				Recipient:   "user@example.com",
				Date:        now,
				BodyPreview: "Your Google Account 2-Step Verification code is: 123456",
				BodyFull:    "Your Google Account 2-Step Verification code is: 123456",
			},
			{
				ID:          "mock-2",
				Subject:     "Meeting tomorrow at 2 PM",
				Sender:      "colleague@work.com",
				Recipient:   "user@example.com",
				Date:        now,
				BodyPreview: "Don't forget about our meeting tomorrow",
				BodyFull:    "Don't forget about our meeting tomorrow at 2 PM to discuss the project.",
			},
		},
	}
}

// FetchRecent returns the sample emails, capped at limit.
func (m *MockMailbox) FetchRecent(ctx context.Context, limit int, filter string) ([]*core.Email, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	emails := m.emails
	if limit > 0 && len(emails) > limit {
		emails = emails[:limit]
	}
	return emails, nil
}

// ApplyLabel records the label application.
func (m *MockMailbox) ApplyLabel(ctx context.Context, emailID, labelName string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	m.applied[emailID] = append(m.applied[emailID], labelName)
	m.mu.Unlock()

	m.logger.Info("Mock label applied",
		zap.String("email_id", emailID),
		zap.String("label", labelName))
	return true, nil
}

// AppliedLabels returns the labels recorded for an email id.
func (m *MockMailbox) AppliedLabels(emailID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.applied[emailID]...)
}
