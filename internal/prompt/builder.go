package prompt

import (
	"fmt"
	"strings"

	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/utils"
)

// Message roles understood by every LLM adapter.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged turn of a classification request. Adapters
// convert these into their provider's native request type.
type Message struct {
	Role    string
	Content string
}

// Builder renders classification requests for a fixed taxonomy. Building is
// deterministic: the same email always produces the same messages.
type Builder struct {
	taxonomy     *core.Taxonomy
	textProc     *utils.TextProcessor
	maxBodySize  int
	systemPrompt string
}

// NewBuilder creates a prompt builder for the given taxonomy. The system
// prompt is rendered once up front since the taxonomy never changes.
func NewBuilder(taxonomy *core.Taxonomy, textProc *utils.TextProcessor, maxBodySize int) *Builder {
	b := &Builder{
		taxonomy:    taxonomy,
		textProc:    textProc,
		maxBodySize: maxBodySize,
	}
	b.systemPrompt = b.renderSystemPrompt()
	return b
}

// BuildMessages assembles the full message sequence for one email: system
// turn, optional few-shot example pairs, then the email itself.
func (b *Builder) BuildMessages(email *core.Email, includeExamples bool) []Message {
	messages := []Message{
		{Role: RoleSystem, Content: b.systemPrompt},
	}

	if includeExamples {
		for _, ex := range fewShotExamples {
			messages = append(messages,
				Message{Role: RoleUser, Content: ex.user},
				Message{Role: RoleAssistant, Content: ex.assistant},
			)
		}
	}

	messages = append(messages, Message{Role: RoleUser, Content: b.UserPrompt(email)})
	return messages
}

// SystemPrompt returns the rendered system instructions.
func (b *Builder) SystemPrompt() string {
	return b.systemPrompt
}

func (b *Builder) renderSystemPrompt() string {
	categories := b.taxonomy.Categories()

	quoted := make([]string, len(categories))
	details := make([]string, len(categories))
	keywords := make([]string, len(categories))
	for i, cat := range categories {
		quoted[i] = fmt.Sprintf("%q", cat.Name)
		details[i] = fmt.Sprintf("- %s: %s", strings.ToUpper(cat.Name), cat.Description)
		kw := "N/A"
		if len(cat.Keywords) > 0 {
			kw = strings.Join(cat.Keywords, ", ")
		}
		keywords[i] = fmt.Sprintf("  %s: %s", cat.Name, kw)
	}
	names := strings.Join(quoted, ", ")

	var sb strings.Builder
	sb.WriteString("You are an expert email classifier. Classify emails quickly and accurately.\n\n")
	sb.WriteString("## Available Categories (USE EXACT NAMES):\n\n")
	sb.WriteString(names)
	sb.WriteString("\n\n## Category Details\n\n")
	sb.WriteString(strings.Join(details, "\n"))
	sb.WriteString("\n\n## Keywords Reference\n\n")
	sb.WriteString(strings.Join(keywords, "\n"))
	sb.WriteString("\n\n## Priority Scale\n\n")
	sb.WriteString("1=Low (newsletters), 2=Normal (regular), 3=Moderate (action soon), 4=High (urgent), 5=Critical (immediate)\n")
	sb.WriteString("\n## How to Classify\n\n")
	sb.WriteString("1. Identify the MOST appropriate single category from the exact list above\n")
	sb.WriteString("2. Set priority 1-5 based on urgency\n")
	sb.WriteString("3. Add 0-3 descriptive labels (lowercase, hyphenated)\n")
	sb.WriteString("4. Brief reasoning: 1-2 sentences, 10-500 chars\n")
	sb.WriteString("5. Confidence: 0.5-1.0\n")
	sb.WriteString("\n## Key Signals\n\n")
	sb.WriteString("- Sender (domain, noreply, company name)\n")
	sb.WriteString("- Subject keywords (urgent, verify, meeting, etc.)\n")
	sb.WriteString("- Body urgency (expires, immediate, confirm, etc.)\n")
	sb.WriteString("- Time sensitivity (deadline, today, expire time)\n")
	sb.WriteString("- Action needed (click, approve, respond, confirm)\n")
	sb.WriteString("\n## CRITICAL: Category Name Rules\n\n")
	sb.WriteString("- You MUST use one of these EXACT category names (case-sensitive, including spaces and special characters):\n  ")
	sb.WriteString(names)
	sb.WriteString("\n- Do NOT use shortened or invented category names\n")
	sb.WriteString("- If unsure, choose the closest match from the list above\n")
	sb.WriteString("\n## Important\n\n")
	sb.WriteString("- Use EXACT category names from the list above (case-sensitive)\n")
	sb.WriteString("- Priority: integer 1-5\n")
	sb.WriteString("- Confidence: decimal 0.5-1.0\n")
	sb.WriteString("- Return VALID JSON only")

	return sb.String()
}

// UserPrompt renders the classification request for one email: subject,
// sender, date, attachment flag, existing labels and the body (full body
// preferred, preview as fallback), bounded to the configured size.
func (b *Builder) UserPrompt(email *core.Email) string {
	sender := email.Sender
	if email.SenderName != "" {
		sender = fmt.Sprintf("%s <%s>", email.SenderName, email.Sender)
	}

	attachments := ""
	if email.HasAttachments {
		attachments = " [Has attachments]"
	}

	labels := ""
	if len(email.ExistingLabels) > 0 {
		labels = fmt.Sprintf("\nLabels: %s", strings.Join(email.ExistingLabels, ", "))
	}

	body := b.textProc.ProcessText(email.Body(), b.maxBodySize)

	return fmt.Sprintf(`Classify this email:

**Subject:** %s
**From:** %s
**Date:** %s%s%s

**Body:**
%s

---

Analyze and classify. Return JSON with: category, priority, labels, reasoning, confidence.`,
		email.Subject, sender, email.Date.Format("2006-01-02 15:04:05"), attachments, labels, body)
}

// JoinForSingleInput flattens a message sequence into the single text input
// expected by reasoning-family models, with an explicit JSON instruction
// appended.
func JoinForSingleInput(messages []Message) string {
	parts := make([]string, len(messages))
	for i, msg := range messages {
		parts[i] = fmt.Sprintf("%s: %s", msg.Role, msg.Content)
	}
	return strings.Join(parts, "\n\n") + "\n\nProvide your response as a valid JSON object."
}
