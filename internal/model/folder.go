package model

// FolderType classifies a folder by its role in the account.
type FolderType string

const (
	FolderTypeRegular FolderType = "regular"
	FolderTypeInbox   FolderType = "inbox"
	FolderTypeOutbox  FolderType = "outbox"
	FolderTypeDrafts  FolderType = "drafts"
	FolderTypeSent    FolderType = "sent"
	FolderTypeTrash   FolderType = "trash"
	FolderTypeSpam    FolderType = "spam"
	FolderTypeArchive FolderType = "archive"
)

// Folder is a locally known mail folder of an account.
type Folder struct {
	// ID is the local numeric identifier, stable across syncs.
	ID int64 `json:"id"`

	AccountUUID string `json:"account_uuid"`

	// ServerID is the folder's name on the server (e.g. "INBOX", "[Gmail]/Sent Mail").
	ServerID string `json:"server_id"`

	// Name is the human-readable folder name as reported by the server.
	Name string `json:"name"`

	Type FolderType `json:"type"`

	// IsLocalOnly marks folders that exist only on this device (e.g. Outbox).
	IsLocalOnly bool `json:"is_local_only"`

	// Integrate marks folders whose messages appear in the unified inbox.
	Integrate bool `json:"integrate"`
}

// MessageCounts aggregates message counts over some set of folders.
type MessageCounts struct {
	Unread  int `json:"unread"`
	Starred int `json:"starred"`
}
