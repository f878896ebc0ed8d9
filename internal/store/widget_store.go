package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/unread-widget/internal/model"
)

type widgetRow struct {
	AppWidgetID int           `db:"app_widget_id"`
	AccountUUID string        `db:"account_uuid"`
	FolderID    sql.NullInt64 `db:"folder_id"`
}

func (r widgetRow) toModel() model.WidgetConfiguration {
	return model.WidgetConfiguration{
		AppWidgetID: r.AppWidgetID,
		AccountUUID: r.AccountUUID,
		FolderID:    nullInt64Ptr(r.FolderID),
	}
}

// SaveWidgetConfiguration inserts or replaces the binding of a widget.
// A folder id given together with the unified inbox is dropped.
func (s *SQLiteStore) SaveWidgetConfiguration(ctx context.Context, cfg model.WidgetConfiguration) error {
	if strings.TrimSpace(cfg.AccountUUID) == "" {
		return fmt.Errorf("widget %d: account uuid must not be empty", cfg.AppWidgetID)
	}
	if cfg.IsUnifiedInbox() {
		cfg.FolderID = nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO widget_configurations (app_widget_id, account_uuid, folder_id, updated_at)
		VALUES (?, ?, ?, ?)`,
		cfg.AppWidgetID, cfg.AccountUUID, int64PtrArg(cfg.FolderID), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving widget configuration %d: %w", cfg.AppWidgetID, err)
	}
	return nil
}

// GetWidgetConfiguration retrieves the binding of a widget. It returns an
// error wrapping model.ErrWidgetNotFound when the widget is not configured.
func (s *SQLiteStore) GetWidgetConfiguration(
	ctx context.Context,
	appWidgetID int,
) (model.WidgetConfiguration, error) {
	var row widgetRow
	err := s.db.GetContext(ctx, &row, `
		SELECT app_widget_id, account_uuid, folder_id
		FROM widget_configurations WHERE app_widget_id = ?`, appWidgetID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WidgetConfiguration{}, fmt.Errorf("getting widget %d: %w", appWidgetID, model.ErrWidgetNotFound)
	}
	if err != nil {
		return model.WidgetConfiguration{}, fmt.Errorf("getting widget %d: %w", appWidgetID, err)
	}
	return row.toModel(), nil
}

// GetWidgetConfigurations retrieves every widget binding ordered by id.
func (s *SQLiteStore) GetWidgetConfigurations(ctx context.Context) ([]model.WidgetConfiguration, error) {
	var rows []widgetRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT app_widget_id, account_uuid, folder_id
		FROM widget_configurations ORDER BY app_widget_id`)
	if err != nil {
		return nil, fmt.Errorf("querying widget configurations: %w", err)
	}

	configs := make([]model.WidgetConfiguration, 0, len(rows))
	for _, r := range rows {
		configs = append(configs, r.toModel())
	}
	return configs, nil
}

// DeleteWidgetConfiguration removes the binding of a widget.
func (s *SQLiteStore) DeleteWidgetConfiguration(ctx context.Context, appWidgetID int) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM widget_configurations WHERE app_widget_id = ?", appWidgetID)
	if err != nil {
		return fmt.Errorf("deleting widget %d: %w", appWidgetID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("deleting widget %d: %w", appWidgetID, model.ErrWidgetNotFound)
	}
	return nil
}
