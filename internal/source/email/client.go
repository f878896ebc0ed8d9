package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/nhle/unread-widget/internal/model"
	"github.com/nhle/unread-widget/internal/source"
	"github.com/nhle/unread-widget/internal/store"
)

// IMAPClient wraps go-imap v2 for connecting to and querying IMAP servers.
type IMAPClient struct {
	accountUUID string
	cfg         ServerConfig
}

// NewIMAPClient creates a new IMAP client configuration.
func NewIMAPClient(accountUUID string, cfg ServerConfig) *IMAPClient {
	if cfg.Port == "" {
		cfg.Port = "993"
	}
	return &IMAPClient{accountUUID: accountUUID, cfg: cfg}
}

// Connect establishes a connection to the IMAP server, authenticates,
// and returns the connected client. The caller is responsible for
// calling Logout/Close on the returned client.
func (c *IMAPClient) Connect(
	_ context.Context,
) (*imapclient.Client, error) {
	addr := c.cfg.Host + ":" + c.cfg.Port

	var client *imapclient.Client
	var err error

	if c.cfg.TLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.cfg.Username, c.cfg.Password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &source.AuthError{
			AccountUUID: c.accountUUID,
			Message: fmt.Sprintf(
				"authentication failed for %s: %v",
				c.cfg.Username, err,
			),
		}
	}

	return client, nil
}

// FetchMailboxes lists every selectable mailbox and fetches the flags of
// all of its messages over a single connection.
func (c *IMAPClient) FetchMailboxes(ctx context.Context) ([]RemoteMailbox, error) {
	client, err := c.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	listOpts := &imap.ListOptions{}
	if client.Caps().Has(imap.CapSpecialUse) {
		listOpts.ReturnSpecialUse = true
	}

	listed, err := client.List("", "*", listOpts).Collect()
	if err != nil {
		return nil, fmt.Errorf("listing mailboxes: %w", err)
	}

	mailboxes := make([]RemoteMailbox, 0, len(listed))
	for _, data := range listed {
		if !selectable(data.Attrs) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		messages, err := fetchFlags(client, data.Mailbox)
		if err != nil {
			return nil, err
		}

		mailboxes = append(mailboxes, RemoteMailbox{
			Name:     data.Mailbox,
			Type:     folderType(data.Mailbox, data.Attrs),
			Messages: messages,
		})
	}

	return mailboxes, nil
}

// fetchFlags selects mailbox read-only and returns the UID and flags of
// every message in it.
func fetchFlags(client *imapclient.Client, mailbox string) ([]store.MessageFlags, error) {
	selected, err := client.Select(mailbox, &imap.SelectOptions{ReadOnly: true}).Wait()
	if err != nil {
		return nil, fmt.Errorf("selecting %s: %w", mailbox, err)
	}
	if selected.NumMessages == 0 {
		return nil, nil
	}

	var seqSet imap.SeqSet
	seqSet.AddRange(1, selected.NumMessages)

	fetchCmd := client.Fetch(seqSet, &imap.FetchOptions{
		UID:   true,
		Flags: true,
	})
	defer fetchCmd.Close()

	messages := make([]store.MessageFlags, 0, selected.NumMessages)
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			continue
		}

		messages = append(messages, flagsFromBuffer(buf))
	}

	if err := fetchCmd.Close(); err != nil {
		return messages, fmt.Errorf("fetching flags of %s: %w", mailbox, err)
	}

	return messages, nil
}

// flagsFromBuffer extracts a flag snapshot from a FetchMessageBuffer.
func flagsFromBuffer(buf *imapclient.FetchMessageBuffer) store.MessageFlags {
	m := store.MessageFlags{UID: uint32(buf.UID)}
	for _, flag := range buf.Flags {
		switch flag {
		case imap.FlagSeen:
			m.Seen = true
		case imap.FlagFlagged:
			m.Flagged = true
		case imap.FlagDeleted:
			m.Deleted = true
		}
	}
	return m
}

// selectable reports whether a mailbox with attrs can be selected.
func selectable(attrs []imap.MailboxAttr) bool {
	for _, attr := range attrs {
		if attr == imap.MailboxAttrNoSelect || attr == imap.MailboxAttrNonExistent {
			return false
		}
	}
	return true
}

// fallbackFolderNames maps common mailbox names to folder types for servers
// without SPECIAL-USE.
var fallbackFolderNames = map[string]model.FolderType{
	"drafts":            model.FolderTypeDrafts,
	"sent":              model.FolderTypeSent,
	"sent items":        model.FolderTypeSent,
	"sent messages":     model.FolderTypeSent,
	"[gmail]/sent mail": model.FolderTypeSent,
	"trash":             model.FolderTypeTrash,
	"deleted items":     model.FolderTypeTrash,
	"[gmail]/trash":     model.FolderTypeTrash,
	"junk":              model.FolderTypeSpam,
	"spam":              model.FolderTypeSpam,
	"[gmail]/spam":      model.FolderTypeSpam,
	"archive":           model.FolderTypeArchive,
	"archives":          model.FolderTypeArchive,
	"inbox.archive":     model.FolderTypeArchive,
}

// folderType classifies a mailbox by its SPECIAL-USE attributes, falling
// back to well-known names.
func folderType(name string, attrs []imap.MailboxAttr) model.FolderType {
	if strings.EqualFold(name, "INBOX") {
		return model.FolderTypeInbox
	}

	for _, attr := range attrs {
		switch attr {
		case imap.MailboxAttrDrafts:
			return model.FolderTypeDrafts
		case imap.MailboxAttrSent:
			return model.FolderTypeSent
		case imap.MailboxAttrTrash:
			return model.FolderTypeTrash
		case imap.MailboxAttrJunk:
			return model.FolderTypeSpam
		case imap.MailboxAttrArchive:
			return model.FolderTypeArchive
		}
	}

	if t, ok := fallbackFolderNames[strings.ToLower(name)]; ok {
		return t
	}
	return model.FolderTypeRegular
}
