package mailbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessageSimple(t *testing.T) {
	raw := strings.Join([]string{
		"Message-ID: <abc123@example.com>",
		"From: Alice Smith <alice@example.com>",
		"To: bob@example.com",
		"Subject: Lunch on Friday?",
		"Date: Fri, 14 Mar 2025 09:26:53 +0000",
		"",
		"Want to grab lunch on Friday at noon?",
	}, "\r\n")

	email, err := ParseMessage(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "abc123@example.com", email.ID)
	assert.Equal(t, "Lunch on Friday?", email.Subject)
	assert.Equal(t, "alice@example.com", email.Sender)
	assert.Equal(t, "Alice Smith", email.SenderName)
	assert.Equal(t, "bob@example.com", email.Recipient)
	assert.Equal(t, 2025, email.Date.Year())
	assert.Equal(t, "Want to grab lunch on Friday at noon?", strings.TrimSpace(email.Body()))
	assert.False(t, email.HasAttachments)
}

func TestParseMessageEncodedSubject(t *testing.T) {
	raw := strings.Join([]string{
		"From: sender@example.com",
		"Subject: =?UTF-8?Q?caf=C3=A9_meeting?=",
		"",
		"Body text",
	}, "\r\n")

	email, err := ParseMessage(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "café meeting", email.Subject)
}

func TestParseMessageMultipartWithAttachment(t *testing.T) {
	raw := strings.Join([]string{
		"From: sender@example.com",
		"Subject: Report attached",
		`Content-Type: multipart/mixed; boundary="frontier"`,
		"",
		"--frontier",
		"Content-Type: text/plain",
		"",
		"Please find the report attached.",
		"--frontier",
		"Content-Type: application/pdf",
		`Content-Disposition: attachment; filename="report.pdf"`,
		"",
		"%PDF-1.4 fake content",
		"--frontier--",
		"",
	}, "\r\n")

	email, err := ParseMessage(strings.NewReader(raw))
	require.NoError(t, err)

	assert.True(t, email.HasAttachments)
	assert.Contains(t, email.Body(), "Please find the report attached.")
	assert.NotContains(t, email.Body(), "%PDF-1.4")
}

func TestParseMessagePrefersFirstTextPart(t *testing.T) {
	raw := strings.Join([]string{
		"From: sender@example.com",
		"Subject: Multipart alternative",
		`Content-Type: multipart/alternative; boundary="b"`,
		"",
		"--b",
		"Content-Type: text/plain",
		"",
		"plain body",
		"--b",
		"Content-Type: text/html",
		"",
		"<p>html body</p>",
		"--b--",
		"",
	}, "\r\n")

	email, err := ParseMessage(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "plain body", strings.TrimSpace(email.Body()))
}

func TestParseMessagePreview(t *testing.T) {
	long := strings.Repeat("a", 500)
	raw := "From: s@example.com\r\nSubject: Long\r\n\r\n" + long

	email, err := ParseMessage(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Len(t, email.BodyPreview, 200)
	assert.Equal(t, long, email.BodyFull)
}

func TestParseMessageInvalid(t *testing.T) {
	_, err := ParseMessage(strings.NewReader("not an email"))
	assert.Error(t, err)
}
