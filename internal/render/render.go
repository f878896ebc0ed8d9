package render

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/unread-widget/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// maxBadgeCount is the largest count shown verbatim on a badge.
const maxBadgeCount = 99

// CardStyle wraps a widget.
var CardStyle = lipgloss.NewStyle().
	Padding(0, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TitleStyle is used for the widget title line.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// HintStyle is used for secondary lines such as the folder a click opens.
var HintStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// HeaderStyle is used for table headers in list output.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// BadgeStyle returns the style of an unread badge. Zero renders muted.
func BadgeStyle(count int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if count == 0 {
		return base.Foreground(ColorGray).Background(ColorSubtle)
	}
	return base.Foreground(lipgloss.Color("#FFFFFF")).Background(ColorRed)
}

// BadgeText formats an unread count for display.
func BadgeText(count int) string {
	if count > maxBadgeCount {
		return strconv.Itoa(maxBadgeCount) + "+"
	}
	return strconv.Itoa(count)
}

// Widget renders resolved widget data as a card.
func Widget(data model.UnreadWidgetData) string {
	top := lipgloss.JoinHorizontal(lipgloss.Center,
		BadgeStyle(data.UnreadCount).Render(BadgeText(data.UnreadCount)),
		" ",
		TitleStyle.Render(data.Title),
	)

	lines := []string{top}
	if data.OpenFolderID != nil {
		lines = append(lines, HintStyle.Render(fmt.Sprintf("opens folder %d", *data.OpenFolderID)))
	}
	return CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Placeholder renders the card shown for a widget whose binding no longer
// resolves.
func Placeholder(appWidgetID int) string {
	return CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(fmt.Sprintf("Widget %d", appWidgetID)),
		HintStyle.Render("account or folder no longer available"),
	))
}
