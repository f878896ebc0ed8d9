package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/unread-widget/internal/model"
)

const accountColumns = `uuid, name, email, protocol,
	imap_host, imap_port, imap_username, imap_tls,
	inbox_folder_id, auto_expand_folder_id, sort_order, created_at, updated_at`

// accountRow mirrors the accounts table for sqlx scanning.
type accountRow struct {
	UUID               string        `db:"uuid"`
	Name               string        `db:"name"`
	Email              string        `db:"email"`
	Protocol           string        `db:"protocol"`
	IMAPHost           string        `db:"imap_host"`
	IMAPPort           string        `db:"imap_port"`
	IMAPUsername       string        `db:"imap_username"`
	IMAPTLS            int           `db:"imap_tls"`
	InboxFolderID      sql.NullInt64 `db:"inbox_folder_id"`
	AutoExpandFolderID sql.NullInt64 `db:"auto_expand_folder_id"`
	SortOrder          int           `db:"sort_order"`
	CreatedAt          time.Time     `db:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at"`
}

func (r accountRow) toModel() model.Account {
	return model.Account{
		UUID:               r.UUID,
		Name:               r.Name,
		Email:              r.Email,
		Protocol:           model.Protocol(r.Protocol),
		IMAPHost:           r.IMAPHost,
		IMAPPort:           r.IMAPPort,
		IMAPUsername:       r.IMAPUsername,
		IMAPTLS:            r.IMAPTLS != 0,
		InboxFolderID:      nullInt64Ptr(r.InboxFolderID),
		AutoExpandFolderID: nullInt64Ptr(r.AutoExpandFolderID),
		SortOrder:          r.SortOrder,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// CreateAccount inserts a new account. If the account has no UUID, a new
// one is generated. The stored account is returned.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account model.Account) (model.Account, error) {
	if strings.TrimSpace(account.Email) == "" {
		return model.Account{}, fmt.Errorf("account email must not be empty")
	}
	if account.UUID == "" {
		account.UUID = uuid.New().String()
	}
	if account.UUID == model.UnifiedInboxAccountUUID {
		return model.Account{}, fmt.Errorf("account uuid %q is reserved", account.UUID)
	}
	if account.Protocol == "" {
		account.Protocol = model.ProtocolIMAP
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	if account.SortOrder == 0 {
		var maxOrder int
		_ = s.db.GetContext(ctx, &maxOrder,
			"SELECT COALESCE(MAX(sort_order), 0) FROM accounts")
		account.SortOrder = maxOrder + 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.UUID, account.Name, account.Email, string(account.Protocol),
		account.IMAPHost, account.IMAPPort, account.IMAPUsername, boolToInt(account.IMAPTLS),
		int64PtrArg(account.InboxFolderID), int64PtrArg(account.AutoExpandFolderID),
		account.SortOrder, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return model.Account{}, fmt.Errorf("creating account: %w", err)
	}
	return account, nil
}

// UpdateAccount updates the editable fields of an existing account.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, account model.Account) error {
	if strings.TrimSpace(account.Email) == "" {
		return fmt.Errorf("account email must not be empty")
	}
	account.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET
			name = ?, email = ?, protocol = ?,
			imap_host = ?, imap_port = ?, imap_username = ?, imap_tls = ?,
			inbox_folder_id = ?, auto_expand_folder_id = ?,
			sort_order = ?, updated_at = ?
		WHERE uuid = ?`,
		account.Name, account.Email, string(account.Protocol),
		account.IMAPHost, account.IMAPPort, account.IMAPUsername, boolToInt(account.IMAPTLS),
		int64PtrArg(account.InboxFolderID), int64PtrArg(account.AutoExpandFolderID),
		account.SortOrder, account.UpdatedAt,
		account.UUID,
	)
	if err != nil {
		return fmt.Errorf("updating account %s: %w", account.UUID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("updating account %s: %w", account.UUID, model.ErrAccountNotFound)
	}
	return nil
}

// DeleteAccount removes an account together with its folders and messages.
// Widget configurations bound to it are left in place and resolve as stale.
func (s *SQLiteStore) DeleteAccount(ctx context.Context, uuid string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM accounts WHERE uuid = ?", uuid)
	if err != nil {
		return fmt.Errorf("deleting account %s: %w", uuid, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("deleting account %s: %w", uuid, model.ErrAccountNotFound)
	}
	return nil
}

// GetAccount retrieves a single account by UUID. It returns an error
// wrapping model.ErrAccountNotFound when no such account exists.
func (s *SQLiteStore) GetAccount(ctx context.Context, uuid string) (model.Account, error) {
	var row accountRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+accountColumns+" FROM accounts WHERE uuid = ?", uuid)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, fmt.Errorf("getting account %s: %w", uuid, model.ErrAccountNotFound)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("getting account %s: %w", uuid, err)
	}
	return row.toModel(), nil
}

// GetAccounts retrieves all accounts in display order.
func (s *SQLiteStore) GetAccounts(ctx context.Context) ([]model.Account, error) {
	var rows []accountRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT "+accountColumns+" FROM accounts ORDER BY sort_order, created_at")
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}

	accounts := make([]model.Account, 0, len(rows))
	for _, r := range rows {
		accounts = append(accounts, r.toModel())
	}
	return accounts, nil
}

// SetSpecialFolders records the inbox and auto-expand folders of an account.
// A nil id clears the corresponding column.
func (s *SQLiteStore) SetSpecialFolders(
	ctx context.Context,
	uuid string,
	inboxFolderID, autoExpandFolderID *int64,
) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET inbox_folder_id = ?, auto_expand_folder_id = ?, updated_at = ?
		WHERE uuid = ?`,
		int64PtrArg(inboxFolderID), int64PtrArg(autoExpandFolderID), time.Now().UTC(), uuid,
	)
	if err != nil {
		return fmt.Errorf("setting special folders for %s: %w", uuid, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("setting special folders for %s: %w", uuid, model.ErrAccountNotFound)
	}
	return nil
}

// nullInt64Ptr converts a nullable column into an optional id.
func nullInt64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// int64PtrArg converts an optional id into a query argument.
func int64PtrArg(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
