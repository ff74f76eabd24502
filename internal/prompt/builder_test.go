package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/utils"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	taxonomy, err := core.NewTaxonomy([]core.CategoryDefinition{
		{Name: "Personal & Social", Description: "Friends and family", Keywords: []string{"friend", "party"}},
		{Name: "Security & 2FA", Description: "Verification codes", Keywords: []string{"code", "2fa"}, PriorityBoost: 2},
		{Name: "Work & Projects", Description: "Meetings and projects"},
	})
	require.NoError(t, err)
	return NewBuilder(taxonomy, utils.NewTextProcessor(zap.NewNop()), 4096)
}

func testEmail() *core.Email {
	return &core.Email{
		ID:          "e1",
		Subject:     "Your verification code",
		Sender:      "noreply@example.com",
		SenderName:  "Example Security",
		Date:        time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		BodyPreview: "Your code is 123456",
	}
}

func TestSystemPromptListsExactCategoryNames(t *testing.T) {
	b := newTestBuilder(t)
	sys := b.SystemPrompt()

	assert.Contains(t, sys, `"Personal & Social", "Security & 2FA", "Work & Projects"`)
	assert.Contains(t, sys, "SECURITY & 2FA: Verification codes")
	assert.Contains(t, sys, "Security & 2FA: code, 2fa")
	// A category without keywords renders an explicit placeholder.
	assert.Contains(t, sys, "Work & Projects: N/A")
	assert.Contains(t, sys, "Return VALID JSON only")
}

func TestBuildMessagesWithExamples(t *testing.T) {
	b := newTestBuilder(t)

	messages := b.BuildMessages(testEmail(), true)

	// System turn, three example pairs, then the email.
	require.Len(t, messages, 1+2*len(fewShotExamples)+1)
	assert.Equal(t, RoleSystem, messages[0].Role)
	for i := 0; i < len(fewShotExamples); i++ {
		assert.Equal(t, RoleUser, messages[1+2*i].Role)
		assert.Equal(t, RoleAssistant, messages[2+2*i].Role)
	}
	last := messages[len(messages)-1]
	assert.Equal(t, RoleUser, last.Role)
	assert.Contains(t, last.Content, "Your verification code")
}

func TestBuildMessagesWithoutExamples(t *testing.T) {
	b := newTestBuilder(t)

	messages := b.BuildMessages(testEmail(), false)

	require.Len(t, messages, 2)
	assert.Equal(t, RoleSystem, messages[0].Role)
	assert.Equal(t, RoleUser, messages[1].Role)
}

func TestBuildMessagesDeterministic(t *testing.T) {
	b := newTestBuilder(t)
	email := testEmail()

	first := b.BuildMessages(email, true)
	second := b.BuildMessages(email, true)

	assert.Equal(t, first, second)
}

func TestUserPromptRendering(t *testing.T) {
	b := newTestBuilder(t)

	email := testEmail()
	email.HasAttachments = true
	email.ExistingLabels = []string{"inbox", "important"}

	got := b.UserPrompt(email)

	assert.Contains(t, got, "**Subject:** Your verification code")
	assert.Contains(t, got, "**From:** Example Security <noreply@example.com>")
	assert.Contains(t, got, "**Date:** 2025-03-14 09:26:53")
	assert.Contains(t, got, "[Has attachments]")
	assert.Contains(t, got, "Labels: inbox, important")
	assert.Contains(t, got, "Your code is 123456")
}

func TestUserPromptPrefersFullBody(t *testing.T) {
	b := newTestBuilder(t)

	email := testEmail()
	email.BodyFull = "The complete body of the message"

	got := b.UserPrompt(email)
	assert.Contains(t, got, "The complete body of the message")
	assert.NotContains(t, got, "Your code is 123456")
}

func TestUserPromptTruncatesLongBody(t *testing.T) {
	taxonomy, err := core.NewTaxonomy([]core.CategoryDefinition{{Name: "Work"}})
	require.NoError(t, err)
	b := NewBuilder(taxonomy, utils.NewTextProcessor(zap.NewNop()), 64)

	email := testEmail()
	email.BodyFull = strings.Repeat("x", 500)

	got := b.UserPrompt(email)
	assert.NotContains(t, got, strings.Repeat("x", 100))
}

func TestJoinForSingleInput(t *testing.T) {
	got := JoinForSingleInput([]Message{
		{Role: RoleSystem, Content: "instructions"},
		{Role: RoleUser, Content: "the email"},
	})

	assert.True(t, strings.HasPrefix(got, "system: instructions"))
	assert.Contains(t, got, "user: the email")
	assert.True(t, strings.HasSuffix(got, "Provide your response as a valid JSON object."))
}

func TestFewShotExamplesAreValidClassifications(t *testing.T) {
	for _, ex := range fewShotExamples {
		c, err := core.ParseClassification(ex.assistant)
		require.NoError(t, err, "example assistant turn must parse: %s", ex.assistant)
		assert.NotEmpty(t, c.Category)
	}
}
