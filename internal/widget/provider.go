// Package widget resolves persisted widget configurations into the title and
// unread count a widget displays.
package widget

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/unread-widget/internal/model"
)

// AccountDirectory looks up accounts by UUID. A missing account is reported
// with an error wrapping model.ErrAccountNotFound.
type AccountDirectory interface {
	GetAccount(ctx context.Context, uuid string) (model.Account, error)
}

// MessageCountsProvider aggregates message counts.
type MessageCountsProvider interface {
	UnifiedCounts(ctx context.Context) (model.MessageCounts, error)
	AccountCounts(ctx context.Context, account model.Account) (model.MessageCounts, error)
	FolderUnreadCount(ctx context.Context, account model.Account, folderID int64) (int, error)
}

// DefaultFolderProvider picks the folder to open for an account when none is
// configured. A missing default is reported with model.ErrFolderNotFound.
type DefaultFolderProvider interface {
	DefaultFolder(ctx context.Context, account model.Account) (int64, error)
}

// FolderRepository looks up folders of an account. A missing folder is
// reported with an error wrapping model.ErrFolderNotFound.
type FolderRepository interface {
	GetFolder(ctx context.Context, accountUUID string, folderID int64) (model.Folder, error)
}

// FolderNameFormatter renders the display name of a folder.
type FolderNameFormatter interface {
	DisplayName(folder model.Folder) string
}

// FolderNameFormatterFactory returns a formatter scoped to one account.
type FolderNameFormatterFactory func(account model.Account) FolderNameFormatter

// Provider resolves widget configurations. It holds no mutable state and is
// safe for concurrent use as long as its collaborators are.
type Provider struct {
	accounts       AccountDirectory
	counts         MessageCountsProvider
	defaultFolders DefaultFolderProvider
	folders        FolderRepository
	formatters     FolderNameFormatterFactory
	unifiedTitle   string
}

// NewProvider creates a Provider. unifiedTitle is the already localized
// label shown for the unified inbox.
func NewProvider(
	accounts AccountDirectory,
	counts MessageCountsProvider,
	defaultFolders DefaultFolderProvider,
	folders FolderRepository,
	formatters FolderNameFormatterFactory,
	unifiedTitle string,
) *Provider {
	return &Provider{
		accounts:       accounts,
		counts:         counts,
		defaultFolders: defaultFolders,
		folders:        folders,
		formatters:     formatters,
		unifiedTitle:   unifiedTitle,
	}
}

// LoadUnreadWidgetData resolves cfg into display data.
//
// ok is false when the configuration no longer points at an existing
// account or folder; callers should then show a placeholder or ask the user
// to reconfigure the widget. err is only set when a collaborator fails.
func (p *Provider) LoadUnreadWidgetData(
	ctx context.Context,
	cfg model.WidgetConfiguration,
) (data model.UnreadWidgetData, ok bool, err error) {
	switch {
	case cfg.IsUnifiedInbox():
		return p.loadUnifiedInbox(ctx, cfg)
	case cfg.FolderID == nil:
		return p.loadAccount(ctx, cfg)
	default:
		return p.loadFolder(ctx, cfg, *cfg.FolderID)
	}
}

func (p *Provider) loadUnifiedInbox(
	ctx context.Context,
	cfg model.WidgetConfiguration,
) (model.UnreadWidgetData, bool, error) {
	counts, err := p.counts.UnifiedCounts(ctx)
	if err != nil {
		return model.UnreadWidgetData{}, false, fmt.Errorf("counting unified inbox: %w", err)
	}

	return model.UnreadWidgetData{
		AppWidgetID: cfg.AppWidgetID,
		Title:       p.unifiedTitle,
		UnreadCount: counts.Unread,
	}, true, nil
}

func (p *Provider) loadAccount(
	ctx context.Context,
	cfg model.WidgetConfiguration,
) (model.UnreadWidgetData, bool, error) {
	account, ok, err := p.findAccount(ctx, cfg.AccountUUID)
	if !ok || err != nil {
		return model.UnreadWidgetData{}, false, err
	}

	counts, err := p.counts.AccountCounts(ctx, account)
	if err != nil {
		return model.UnreadWidgetData{}, false, fmt.Errorf("counting account %s: %w", account.UUID, err)
	}

	var openFolderID *int64
	folderID, err := p.defaultFolders.DefaultFolder(ctx, account)
	switch {
	case err == nil:
		openFolderID = &folderID
	case !errors.Is(err, model.ErrFolderNotFound):
		return model.UnreadWidgetData{}, false, fmt.Errorf("default folder of account %s: %w", account.UUID, err)
	}

	return model.UnreadWidgetData{
		AppWidgetID:  cfg.AppWidgetID,
		Title:        account.DisplayName(),
		UnreadCount:  counts.Unread,
		OpenFolderID: openFolderID,
	}, true, nil
}

func (p *Provider) loadFolder(
	ctx context.Context,
	cfg model.WidgetConfiguration,
	folderID int64,
) (model.UnreadWidgetData, bool, error) {
	account, ok, err := p.findAccount(ctx, cfg.AccountUUID)
	if !ok || err != nil {
		return model.UnreadWidgetData{}, false, err
	}

	folder, err := p.folders.GetFolder(ctx, account.UUID, folderID)
	if errors.Is(err, model.ErrFolderNotFound) {
		return model.UnreadWidgetData{}, false, nil
	}
	if err != nil {
		return model.UnreadWidgetData{}, false, fmt.Errorf("looking up folder %d: %w", folderID, err)
	}

	unread, err := p.counts.FolderUnreadCount(ctx, account, folderID)
	if err != nil {
		return model.UnreadWidgetData{}, false, fmt.Errorf("counting folder %d: %w", folderID, err)
	}

	folderName := p.formatters(account).DisplayName(folder)

	return model.UnreadWidgetData{
		AppWidgetID:  cfg.AppWidgetID,
		Title:        account.DisplayName() + " - " + folderName,
		UnreadCount:  unread,
		OpenFolderID: &folderID,
	}, true, nil
}

// findAccount maps a missing account to ok == false.
func (p *Provider) findAccount(ctx context.Context, uuid string) (model.Account, bool, error) {
	account, err := p.accounts.GetAccount(ctx, uuid)
	if errors.Is(err, model.ErrAccountNotFound) {
		return model.Account{}, false, nil
	}
	if err != nil {
		return model.Account{}, false, fmt.Errorf("looking up account %s: %w", uuid, err)
	}
	return account, true, nil
}
