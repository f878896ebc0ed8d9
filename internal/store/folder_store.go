package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/unread-widget/internal/model"
)

const folderColumns = "id, account_uuid, server_id, name, type, is_local_only, integrate"

type folderRow struct {
	ID          int64  `db:"id"`
	AccountUUID string `db:"account_uuid"`
	ServerID    string `db:"server_id"`
	Name        string `db:"name"`
	Type        string `db:"type"`
	IsLocalOnly int    `db:"is_local_only"`
	Integrate   int    `db:"integrate"`
}

func (r folderRow) toModel() model.Folder {
	return model.Folder{
		ID:          r.ID,
		AccountUUID: r.AccountUUID,
		ServerID:    r.ServerID,
		Name:        r.Name,
		Type:        model.FolderType(r.Type),
		IsLocalOnly: r.IsLocalOnly != 0,
		Integrate:   r.Integrate != 0,
	}
}

// UpsertFolder inserts a folder or refreshes the name, type and locality of
// the folder with the same server id. The integrate flag is only written on
// insert so a user's choice survives later syncs. It returns the local id.
func (s *SQLiteStore) UpsertFolder(ctx context.Context, folder model.Folder) (int64, error) {
	if strings.TrimSpace(folder.ServerID) == "" {
		return 0, fmt.Errorf("folder server id must not be empty")
	}
	if folder.Name == "" {
		folder.Name = folder.ServerID
	}
	if folder.Type == "" {
		folder.Type = model.FolderTypeRegular
	}

	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO folders (account_uuid, server_id, name, type, is_local_only, integrate)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_uuid, server_id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			is_local_only = excluded.is_local_only
		RETURNING id`,
		folder.AccountUUID, folder.ServerID, folder.Name, string(folder.Type),
		boolToInt(folder.IsLocalOnly), boolToInt(folder.Integrate),
	)
	if err != nil {
		return 0, fmt.Errorf("upserting folder %s/%s: %w", folder.AccountUUID, folder.ServerID, err)
	}
	return id, nil
}

// GetFolder retrieves a folder of the given account by local id. It returns
// an error wrapping model.ErrFolderNotFound when the folder does not exist
// or belongs to another account.
func (s *SQLiteStore) GetFolder(
	ctx context.Context,
	accountUUID string,
	folderID int64,
) (model.Folder, error) {
	var row folderRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+folderColumns+" FROM folders WHERE account_uuid = ? AND id = ?",
		accountUUID, folderID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Folder{}, fmt.Errorf("getting folder %d: %w", folderID, model.ErrFolderNotFound)
	}
	if err != nil {
		return model.Folder{}, fmt.Errorf("getting folder %d: %w", folderID, err)
	}
	return row.toModel(), nil
}

// GetFolders retrieves all folders of an account, inbox first.
func (s *SQLiteStore) GetFolders(ctx context.Context, accountUUID string) ([]model.Folder, error) {
	var rows []folderRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+folderColumns+` FROM folders
		WHERE account_uuid = ?
		ORDER BY CASE type WHEN 'inbox' THEN 0 ELSE 1 END, name`,
		accountUUID)
	if err != nil {
		return nil, fmt.Errorf("querying folders for %s: %w", accountUUID, err)
	}

	folders := make([]model.Folder, 0, len(rows))
	for _, r := range rows {
		folders = append(folders, r.toModel())
	}
	return folders, nil
}

// DeleteFoldersNotIn removes the server folders of an account whose server
// id is not listed. Local-only folders are kept.
func (s *SQLiteStore) DeleteFoldersNotIn(
	ctx context.Context,
	accountUUID string,
	serverIDs []string,
) error {
	query := "DELETE FROM folders WHERE account_uuid = ? AND is_local_only = 0"
	args := []any{accountUUID}

	if len(serverIDs) > 0 {
		q, inArgs, err := sqlx.In(query+" AND server_id NOT IN (?)", accountUUID, serverIDs)
		if err != nil {
			return fmt.Errorf("building folder prune query: %w", err)
		}
		query, args = s.db.Rebind(q), inArgs
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("pruning folders for %s: %w", accountUUID, err)
	}
	return nil
}
