package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/unread-widget/internal/model"
)

// ReplaceFolderMessages swaps the stored flag snapshot of a folder for the
// given one in a single transaction.
func (s *SQLiteStore) ReplaceFolderMessages(
	ctx context.Context,
	folderID int64,
	messages []MessageFlags,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE folder_id = ?", folderID); err != nil {
		return fmt.Errorf("clearing messages of folder %d: %w", folderID, err)
	}

	if len(messages) > 0 {
		stmt, err := tx.PreparexContext(ctx, `
			INSERT OR REPLACE INTO messages (folder_id, uid, seen, flagged, deleted)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing message insert: %w", err)
		}
		defer stmt.Close()

		for _, m := range messages {
			_, err := stmt.ExecContext(ctx,
				folderID, m.UID, boolToInt(m.Seen), boolToInt(m.Flagged), boolToInt(m.Deleted),
			)
			if err != nil {
				return fmt.Errorf("inserting message %d of folder %d: %w", m.UID, folderID, err)
			}
		}
	}

	return tx.Commit()
}

// CountMessages returns unread and starred counts of the messages matching
// the filter. Messages flagged as deleted are never counted.
func (s *SQLiteStore) CountMessages(ctx context.Context, filter CountFilter) (model.MessageCounts, error) {
	conditions := []string{"m.deleted = 0"}
	var args []any

	if filter.AccountUUID != nil {
		conditions = append(conditions, "f.account_uuid = ?")
		args = append(args, *filter.AccountUUID)
	}
	if filter.FolderID != nil {
		conditions = append(conditions, "f.id = ?")
		args = append(args, *filter.FolderID)
	}
	if filter.IntegrateOnly {
		conditions = append(conditions, "f.integrate = 1")
	}
	if len(filter.ExcludeTypes) > 0 {
		types := make([]string, 0, len(filter.ExcludeTypes))
		for _, t := range filter.ExcludeTypes {
			types = append(types, string(t))
		}
		conditions = append(conditions, "f.type NOT IN (?)")
		args = append(args, types)
	}

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN m.seen = 0 THEN 1 ELSE 0 END), 0) AS unread,
			COALESCE(SUM(CASE WHEN m.flagged = 1 THEN 1 ELSE 0 END), 0) AS starred
		FROM messages m
		JOIN folders f ON f.id = m.folder_id
		WHERE ` + strings.Join(conditions, " AND ")

	if len(filter.ExcludeTypes) > 0 {
		q, inArgs, err := sqlx.In(query, args...)
		if err != nil {
			return model.MessageCounts{}, fmt.Errorf("building count query: %w", err)
		}
		query, args = s.db.Rebind(q), inArgs
	}

	var counts model.MessageCounts
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&counts.Unread, &counts.Starred); err != nil {
		return model.MessageCounts{}, fmt.Errorf("counting messages: %w", err)
	}
	return counts, nil
}
