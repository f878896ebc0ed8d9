package model

import "time"

// Protocol identifies how an account's mail is retrieved.
type Protocol string

const (
	ProtocolIMAP Protocol = "imap"
	ProtocolPOP3 Protocol = "pop3"
)

// UnifiedInboxAccountUUID is the account identifier that binds a widget to
// the unified inbox pseudo-account instead of a concrete account.
// It is persisted as-is in widget configurations, so it must never change.
const UnifiedInboxAccountUUID = "unified_inbox"

// Account is a configured mail account.
type Account struct {
	// UUID is the stable identifier of the account.
	UUID string `json:"uuid"`

	// Name is the user-defined label. It may be empty.
	Name string `json:"name"`

	// Email is the primary address of the account.
	Email string `json:"email"`

	Protocol Protocol `json:"protocol"`

	// IMAP connection settings. The password lives in the system keyring.
	IMAPHost     string `json:"imap_host"`
	IMAPPort     string `json:"imap_port"`
	IMAPUsername string `json:"imap_username"`
	IMAPTLS      bool   `json:"imap_tls"`

	// InboxFolderID is the local id of the account's inbox, once known.
	InboxFolderID *int64 `json:"inbox_folder_id,omitempty"`

	// AutoExpandFolderID is the folder the user wants opened by default.
	AutoExpandFolderID *int64 `json:"auto_expand_folder_id,omitempty"`

	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the account name, falling back to the email address.
func (a Account) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}
