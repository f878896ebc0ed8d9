package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/unread-widget/internal/credential"
	"github.com/nhle/unread-widget/internal/model"
	"github.com/nhle/unread-widget/internal/source"
	"github.com/nhle/unread-widget/internal/store"
)

// MailboxFetcher retrieves the mailboxes of one account.
type MailboxFetcher interface {
	FetchMailboxes(ctx context.Context) ([]RemoteMailbox, error)
}

// Dialer builds a MailboxFetcher for an account.
type Dialer func(account model.Account, password string) MailboxFetcher

// DialIMAP is the Dialer used in production.
func DialIMAP(account model.Account, password string) MailboxFetcher {
	return NewIMAPClient(account.UUID, ServerConfig{
		Host:     account.IMAPHost,
		Port:     account.IMAPPort,
		Username: account.IMAPUsername,
		Password: password,
		TLS:      account.IMAPTLS,
	})
}

// Secrets looks up stored credentials.
type Secrets interface {
	Get(key string) (string, error)
}

// FolderStore is the part of the store the Syncer writes to.
type FolderStore interface {
	UpsertFolder(ctx context.Context, folder model.Folder) (int64, error)
	GetFolder(ctx context.Context, accountUUID string, folderID int64) (model.Folder, error)
	DeleteFoldersNotIn(ctx context.Context, accountUUID string, serverIDs []string) error
	ReplaceFolderMessages(ctx context.Context, folderID int64, messages []store.MessageFlags) error
	SetSpecialFolders(ctx context.Context, uuid string, inboxFolderID, autoExpandFolderID *int64) error
}

// Syncer implements source.Syncer for IMAP accounts.
type Syncer struct {
	store   FolderStore
	secrets Secrets
	dial    Dialer
	now     func() time.Time
}

// NewSyncer creates a Syncer. A nil dial uses DialIMAP.
func NewSyncer(s FolderStore, secrets Secrets, dial Dialer) *Syncer {
	if dial == nil {
		dial = DialIMAP
	}
	return &Syncer{store: s, secrets: secrets, dial: dial, now: time.Now}
}

var _ source.Syncer = (*Syncer)(nil)

// SyncAccount mirrors the server's mailboxes and message flags into the
// store, prunes mailboxes that disappeared and records the inbox folder.
func (s *Syncer) SyncAccount(ctx context.Context, account model.Account) (*source.SyncResult, error) {
	if account.Protocol != model.ProtocolIMAP {
		return nil, fmt.Errorf("syncing account %s: unsupported protocol %q", account.UUID, account.Protocol)
	}

	password, err := s.secrets.Get(credential.IMAPPasswordKey(account.UUID))
	if err != nil {
		return nil, fmt.Errorf("loading password for %s: %w", account.UUID, err)
	}

	mailboxes, err := s.dial(account, password).FetchMailboxes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching mailboxes of %s: %w", account.UUID, err)
	}

	result := &source.SyncResult{AccountUUID: account.UUID}
	serverIDs := make([]string, 0, len(mailboxes))
	var inboxID *int64

	for _, mb := range mailboxes {
		id, err := s.store.UpsertFolder(ctx, model.Folder{
			AccountUUID: account.UUID,
			ServerID:    mb.Name,
			Name:        mb.Name,
			Type:        mb.Type,
			Integrate:   mb.Type == model.FolderTypeInbox,
		})
		if err != nil {
			return nil, err
		}
		if err := s.store.ReplaceFolderMessages(ctx, id, mb.Messages); err != nil {
			return nil, err
		}

		if mb.Type == model.FolderTypeInbox && inboxID == nil {
			folderID := id
			inboxID = &folderID
		}
		serverIDs = append(serverIDs, mb.Name)
		result.Folders++
		result.Messages += len(mb.Messages)
		result.Unread += unreadCount(mb.Messages)
	}

	if err := s.store.DeleteFoldersNotIn(ctx, account.UUID, serverIDs); err != nil {
		return nil, err
	}

	autoExpand, err := s.existingFolder(ctx, account.UUID, account.AutoExpandFolderID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetSpecialFolders(ctx, account.UUID, inboxID, autoExpand); err != nil {
		return nil, err
	}

	result.FinishedAt = s.now()
	return result, nil
}

// existingFolder returns id if it still refers to a folder of the account.
func (s *Syncer) existingFolder(ctx context.Context, accountUUID string, id *int64) (*int64, error) {
	if id == nil {
		return nil, nil
	}
	_, err := s.store.GetFolder(ctx, accountUUID, *id)
	if errors.Is(err, model.ErrFolderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return id, nil
}

func unreadCount(messages []store.MessageFlags) int {
	n := 0
	for _, m := range messages {
		if !m.Seen && !m.Deleted {
			n++
		}
	}
	return n
}
