// Package folders decides how folders are named and which folder an account
// opens by default.
package folders

import (
	"github.com/nhle/unread-widget/internal/i18n"
	"github.com/nhle/unread-widget/internal/model"
	"github.com/nhle/unread-widget/internal/widget"
)

// specialFolderKeys maps folder types to their translated label keys.
var specialFolderKeys = map[model.FolderType]string{
	model.FolderTypeInbox:   i18n.Inbox,
	model.FolderTypeOutbox:  i18n.Outbox,
	model.FolderTypeDrafts:  i18n.Drafts,
	model.FolderTypeSent:    i18n.Sent,
	model.FolderTypeTrash:   i18n.Trash,
	model.FolderTypeSpam:    i18n.Spam,
	model.FolderTypeArchive: i18n.Archive,
}

// NameFormatter renders folder names for one account.
//
// Inbox and Outbox are always shown translated. Other special folders keep
// their server name on IMAP accounts, where the user chose that name, and
// are translated for POP3 accounts and local-only folders.
type NameFormatter struct {
	labels       i18n.Labels
	translateAll bool
}

// NewNameFormatter returns a formatter scoped to account.
func NewNameFormatter(labels i18n.Labels, account model.Account) NameFormatter {
	return NameFormatter{
		labels:       labels,
		translateAll: account.Protocol == model.ProtocolPOP3,
	}
}

// DisplayName returns the name to show for folder.
func (f NameFormatter) DisplayName(folder model.Folder) string {
	key, special := specialFolderKeys[folder.Type]
	if !special {
		return folder.Name
	}

	switch folder.Type {
	case model.FolderTypeInbox, model.FolderTypeOutbox:
		return f.labels.Get(key)
	}
	if f.translateAll || folder.IsLocalOnly || folder.Name == "" {
		return f.labels.Get(key)
	}
	return folder.Name
}

// NewFormatterFactory returns a widget.FolderNameFormatterFactory that
// renders names with labels.
func NewFormatterFactory(labels i18n.Labels) widget.FolderNameFormatterFactory {
	return func(account model.Account) widget.FolderNameFormatter {
		return NewNameFormatter(labels, account)
	}
}
