package mailbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/core"
)

// IMAPClient implements the MailboxFetcher and LabelWriter interfaces over
// an IMAP server. Labels are written as IMAP keywords. Each operation uses
// its own connection; the triage loop runs infrequently enough that holding
// an idle session open buys nothing.
type IMAPClient struct {
	address  string
	username string
	password string
	folder   string
	logger   *zap.Logger
}

// NewIMAPClient creates a new IMAP mailbox client.
func NewIMAPClient(address, username, password, folder string, logger *zap.Logger) *IMAPClient {
	if folder == "" {
		folder = "INBOX"
	}
	return &IMAPClient{
		address:  address,
		username: username,
		password: password,
		folder:   folder,
		logger:   logger,
	}
}

// connect dials and authenticates a new session.
func (m *IMAPClient) connect() (*client.Client, error) {
	c, err := client.DialTLS(m.address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}
	if err := c.Login(m.username, m.password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("IMAP login failed: %w", err)
	}
	return c, nil
}

// FetchRecent returns up to limit of the most recent emails in the
// configured folder. The filter parameter is unused by this adapter; label
// filtering happens in the triage layer.
func (m *IMAPClient) FetchRecent(ctx context.Context, limit int, filter string) ([]*core.Email, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	mbox, err := c.Select(m.folder, true)
	if err != nil {
		return nil, fmt.Errorf("failed to select folder %s: %w", m.folder, err)
	}
	if mbox.Messages == 0 {
		return nil, nil
	}

	from := uint32(1)
	if limit > 0 && mbox.Messages > uint32(limit) {
		from = mbox.Messages - uint32(limit) + 1
	}
	seqset := new(imap.SeqSet)
	seqset.AddRange(from, mbox.Messages)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchFlags, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 16)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	var emails []*core.Email
	for msg := range messages {
		email := m.convertMessage(msg, section)
		if email != nil {
			emails = append(emails, email)
		}
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("IMAP fetch failed: %w", err)
	}

	m.logger.Debug("Fetched emails from IMAP",
		zap.String("folder", m.folder),
		zap.Int("count", len(emails)))

	return emails, nil
}

// convertMessage maps a fetched IMAP message onto a core.Email. The UID is
// the stable message identifier; keywords (non-system flags) become
// existing labels.
func (m *IMAPClient) convertMessage(msg *imap.Message, section *imap.BodySectionName) *core.Email {
	if msg == nil || msg.Envelope == nil {
		return nil
	}

	email := &core.Email{
		ID:      strconv.FormatUint(uint64(msg.Uid), 10),
		Subject: msg.Envelope.Subject,
		Date:    msg.Envelope.Date,
	}

	if len(msg.Envelope.From) > 0 {
		email.Sender = msg.Envelope.From[0].Address()
		email.SenderName = msg.Envelope.From[0].PersonalName
	}
	if len(msg.Envelope.To) > 0 {
		email.Recipient = msg.Envelope.To[0].Address()
	}

	for _, flag := range msg.Flags {
		if flag == imap.SeenFlag {
			email.IsRead = true
			continue
		}
		if !strings.HasPrefix(flag, "\\") {
			email.ExistingLabels = append(email.ExistingLabels, flag)
		}
	}

	if literal := msg.GetBody(section); literal != nil {
		raw, err := io.ReadAll(literal)
		if err == nil {
			if parsed, err := ParseMessage(bytes.NewReader(raw)); err == nil {
				email.BodyFull = parsed.BodyFull
				email.BodyPreview = parsed.BodyPreview
				email.HasAttachments = parsed.HasAttachments
			}
		}
	}

	return email
}

// ApplyLabel adds the label as an IMAP keyword on the message.
func (m *IMAPClient) ApplyLabel(ctx context.Context, emailID, labelName string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	uid, err := strconv.ParseUint(emailID, 10, 32)
	if err != nil {
		return false, fmt.Errorf("invalid email id %q: %w", emailID, err)
	}

	c, err := m.connect()
	if err != nil {
		return false, err
	}
	defer c.Logout()

	if _, err := c.Select(m.folder, false); err != nil {
		return false, fmt.Errorf("failed to select folder %s: %w", m.folder, err)
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uint32(uid))
	item := imap.FormatFlagsOp(imap.AddFlags, true)

	if err := c.UidStore(seqset, item, []interface{}{labelName}, nil); err != nil {
		return false, fmt.Errorf("failed to store label: %w", err)
	}

	m.logger.Debug("Applied label",
		zap.String("email_id", emailID),
		zap.String("label", labelName))

	return true, nil
}
