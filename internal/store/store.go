package store

import (
	"context"

	"github.com/nhle/unread-widget/internal/model"
)

// CountFilter selects which messages CountMessages aggregates over.
// Zero-value fields do not restrict the result.
type CountFilter struct {
	AccountUUID   *string
	FolderID      *int64
	IntegrateOnly bool
	ExcludeTypes  []model.FolderType
}

// MessageFlags is a snapshot of one message's flags in a folder.
type MessageFlags struct {
	UID     uint32
	Seen    bool
	Flagged bool
	Deleted bool
}

// Store defines the persistence interface for accounts, folders, message
// flag snapshots and widget configurations.
type Store interface {
	// === Accounts ===

	CreateAccount(ctx context.Context, account model.Account) (model.Account, error)
	UpdateAccount(ctx context.Context, account model.Account) error
	DeleteAccount(ctx context.Context, uuid string) error
	GetAccount(ctx context.Context, uuid string) (model.Account, error)
	GetAccounts(ctx context.Context) ([]model.Account, error)
	SetSpecialFolders(ctx context.Context, uuid string, inboxFolderID, autoExpandFolderID *int64) error

	// === Folders ===

	UpsertFolder(ctx context.Context, folder model.Folder) (int64, error)
	GetFolder(ctx context.Context, accountUUID string, folderID int64) (model.Folder, error)
	GetFolders(ctx context.Context, accountUUID string) ([]model.Folder, error)
	DeleteFoldersNotIn(ctx context.Context, accountUUID string, serverIDs []string) error

	// === Messages ===

	ReplaceFolderMessages(ctx context.Context, folderID int64, messages []MessageFlags) error
	CountMessages(ctx context.Context, filter CountFilter) (model.MessageCounts, error)

	// === Widget configurations ===

	SaveWidgetConfiguration(ctx context.Context, cfg model.WidgetConfiguration) error
	GetWidgetConfiguration(ctx context.Context, appWidgetID int) (model.WidgetConfiguration, error)
	GetWidgetConfigurations(ctx context.Context) ([]model.WidgetConfiguration, error)
	DeleteWidgetConfiguration(ctx context.Context, appWidgetID int) error
}

var _ Store = (*SQLiteStore)(nil)
