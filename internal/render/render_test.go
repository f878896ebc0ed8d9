package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/unread-widget/internal/model"
)

func TestBadgeText(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "0"},
		{7, "7"},
		{99, "99"},
		{100, "99+"},
		{12345, "99+"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BadgeText(tt.count))
	}
}

func TestWidgetIncludesTitleAndCount(t *testing.T) {
	folderID := int64(23)
	out := Widget(model.UnreadWidgetData{
		AppWidgetID:  1,
		Title:        "Personal",
		UnreadCount:  42,
		OpenFolderID: &folderID,
	})

	assert.Contains(t, out, "Personal")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "opens folder 23")
}

func TestWidgetWithoutFolderHint(t *testing.T) {
	out := Widget(model.UnreadWidgetData{Title: "Unified Inbox", UnreadCount: 150})

	assert.Contains(t, out, "99+")
	assert.NotContains(t, out, "opens folder")
}

func TestPlaceholder(t *testing.T) {
	out := Placeholder(7)

	assert.Contains(t, out, "Widget 7")
	assert.Contains(t, out, "no longer available")
}
