package mailbox

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"time"

	"github.com/mikey/llm-mail-triage/internal/core"
)

// ParseMessage builds a core.Email from an RFC 5322 message stream. Used by
// the IMAP adapter for fetched bodies and by the one-shot CLI for .eml
// files.
func ParseMessage(r io.Reader) (*core.Email, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	email := &core.Email{
		ID:      strings.Trim(msg.Header.Get("Message-ID"), "<>"),
		Subject: decodeHeader(msg.Header.Get("Subject")),
	}

	if addr, err := mail.ParseAddress(msg.Header.Get("From")); err == nil {
		email.Sender = addr.Address
		email.SenderName = addr.Name
	} else {
		email.Sender = msg.Header.Get("From")
	}
	if addr, err := mail.ParseAddress(msg.Header.Get("To")); err == nil {
		email.Recipient = addr.Address
	} else {
		email.Recipient = msg.Header.Get("To")
	}

	if date, err := msg.Header.Date(); err == nil {
		email.Date = date
	} else {
		email.Date = time.Now()
	}

	body, hasAttachments, err := extractBody(msg)
	if err != nil {
		return nil, err
	}
	email.BodyFull = body
	email.BodyPreview = preview(body, 200)
	email.HasAttachments = hasAttachments

	return email, nil
}

// extractBody returns the text content of the message and whether any part
// looks like an attachment. Multipart messages yield their first text part.
func extractBody(msg *mail.Message) (string, bool, error) {
	contentType := msg.Header.Get("Content-Type")
	if contentType == "" {
		body, err := io.ReadAll(msg.Body)
		if err != nil {
			return "", false, fmt.Errorf("failed to read message body: %w", err)
		}
		return string(body), false, nil
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		body, readErr := io.ReadAll(msg.Body)
		if readErr != nil {
			return "", false, fmt.Errorf("failed to read message body: %w", readErr)
		}
		return string(body), false, nil
	}

	var text string
	hasAttachments := false
	mr := multipart.NewReader(msg.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", false, fmt.Errorf("failed to read message part: %w", err)
		}

		disposition := part.Header.Get("Content-Disposition")
		if strings.HasPrefix(disposition, "attachment") {
			hasAttachments = true
			continue
		}

		partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if text == "" && (partType == "" || strings.HasPrefix(partType, "text/plain")) {
			data, err := io.ReadAll(part)
			if err != nil {
				continue
			}
			text = string(data)
		}
	}

	return text, hasAttachments, nil
}

func decodeHeader(value string) string {
	decoder := new(mime.WordDecoder)
	decoded, err := decoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	return body[:max]
}
