// Package counts computes unread and starred message counts from the local
// flag snapshots kept by the store.
package counts

import (
	"context"

	"github.com/nhle/unread-widget/internal/model"
	"github.com/nhle/unread-widget/internal/store"
)

// hiddenFolderTypes are left out of account-wide counts.
var hiddenFolderTypes = []model.FolderType{
	model.FolderTypeTrash,
	model.FolderTypeSpam,
	model.FolderTypeOutbox,
	model.FolderTypeDrafts,
	model.FolderTypeSent,
}

// Counter is the part of the store the Provider reads from.
type Counter interface {
	CountMessages(ctx context.Context, filter store.CountFilter) (model.MessageCounts, error)
}

// Provider implements widget.MessageCountsProvider.
type Provider struct {
	store Counter
}

// New creates a Provider reading from s.
func New(s Counter) *Provider {
	return &Provider{store: s}
}

// UnifiedCounts counts messages in every integrated folder of every account.
func (p *Provider) UnifiedCounts(ctx context.Context) (model.MessageCounts, error) {
	return p.store.CountMessages(ctx, store.CountFilter{IntegrateOnly: true})
}

// AccountCounts counts messages across all folders of account, except
// trash, spam, outbox, drafts and sent.
func (p *Provider) AccountCounts(ctx context.Context, account model.Account) (model.MessageCounts, error) {
	uuid := account.UUID
	return p.store.CountMessages(ctx, store.CountFilter{
		AccountUUID:  &uuid,
		ExcludeTypes: hiddenFolderTypes,
	})
}

// FolderUnreadCount counts unread messages in one folder of account.
func (p *Provider) FolderUnreadCount(ctx context.Context, account model.Account, folderID int64) (int, error) {
	uuid := account.UUID
	counts, err := p.store.CountMessages(ctx, store.CountFilter{
		AccountUUID: &uuid,
		FolderID:    &folderID,
	})
	if err != nil {
		return 0, err
	}
	return counts.Unread, nil
}
