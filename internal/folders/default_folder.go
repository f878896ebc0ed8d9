package folders

import (
	"context"
	"fmt"

	"github.com/nhle/unread-widget/internal/model"
)

// DefaultFolderProvider picks the folder an account opens when no folder is
// configured: the auto-expand folder if set, otherwise the inbox.
type DefaultFolderProvider struct{}

// DefaultFolder returns the default folder id of account, or an error
// wrapping model.ErrFolderNotFound when the account has neither.
func (DefaultFolderProvider) DefaultFolder(_ context.Context, account model.Account) (int64, error) {
	if account.AutoExpandFolderID != nil {
		return *account.AutoExpandFolderID, nil
	}
	if account.InboxFolderID != nil {
		return *account.InboxFolderID, nil
	}
	return 0, fmt.Errorf("default folder of account %s: %w", account.UUID, model.ErrFolderNotFound)
}
