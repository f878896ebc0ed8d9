package email

import (
	"github.com/nhle/unread-widget/internal/model"
	"github.com/nhle/unread-widget/internal/store"
)

// RemoteMailbox is a mailbox as listed by the server, with the flags of
// every message it holds.
type RemoteMailbox struct {
	// Name is the full mailbox name on the server, e.g. "INBOX" or "Work/Reports".
	Name     string
	Type     model.FolderType
	Messages []store.MessageFlags
}

// ServerConfig holds the IMAP connection settings of one account.
type ServerConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	TLS      bool
}
