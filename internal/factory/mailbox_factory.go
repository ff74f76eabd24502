package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/adapters/mailbox"
	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
)

// MailboxFactory creates mailbox collaborators based on configuration.
type MailboxFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailboxFactory creates a new mailbox factory.
func NewMailboxFactory(cfg *config.Config, logger *zap.Logger) *MailboxFactory {
	return &MailboxFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailbox creates the fetch and label write-back collaborators. Both
// roles are served by the same adapter instance.
func (f *MailboxFactory) CreateMailbox() (core.MailboxFetcher, core.LabelWriter, error) {
	mailboxCfg := f.cfg.GetMailbox()

	switch mailboxCfg.Type {
	case "imap":
		imapCfg := f.cfg.GetIMAP()
		if imapCfg.Address == "" {
			return nil, nil, fmt.Errorf("imap mailbox requires imap.address")
		}
		c := mailbox.NewIMAPClient(imapCfg.Address, imapCfg.Username, imapCfg.Password, imapCfg.Folder, f.logger)
		return c, c, nil
	case "mock":
		m := mailbox.NewMockMailbox(f.logger)
		return m, m, nil
	default:
		return nil, nil, fmt.Errorf("unsupported mailbox type: %s", mailboxCfg.Type)
	}
}
