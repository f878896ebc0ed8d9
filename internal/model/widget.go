package model

// WidgetConfiguration binds a widget instance to an account and, optionally,
// one of its folders.
type WidgetConfiguration struct {
	AppWidgetID int `json:"app_widget_id"`

	// AccountUUID is either UnifiedInboxAccountUUID or a concrete account UUID.
	AccountUUID string `json:"account_uuid"`

	// FolderID narrows the widget to a single folder. Ignored for the
	// unified inbox.
	FolderID *int64 `json:"folder_id,omitempty"`
}

// IsUnifiedInbox reports whether the configuration targets the unified inbox.
func (c WidgetConfiguration) IsUnifiedInbox() bool {
	return c.AccountUUID == UnifiedInboxAccountUUID
}

// UnreadWidgetData is what a widget displays.
type UnreadWidgetData struct {
	AppWidgetID int    `json:"app_widget_id"`
	Title       string `json:"title"`
	UnreadCount int    `json:"unread_count"`

	// OpenFolderID is the folder a click on the widget opens, if any.
	OpenFolderID *int64 `json:"open_folder_id,omitempty"`
}
