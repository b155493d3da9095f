package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"crmdash/internal/model"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, width int) string {
	if mode == model.ModeInsert {
		return renderFormHelp(width)
	}

	switch screen {
	case model.ScreenUsers, model.ScreenTemplates:
		return renderListHelp(width, helpKey("a/e", "add/edit"))
	case model.ScreenContacts:
		return renderListHelp(width, helpKey("a/e", "add/edit"), helpKey("E", "email selected"))
	case model.ScreenCampaigns:
		return renderListHelp(width)
	case model.ScreenDetail:
		return renderDetailHelp(width)
	default:
		return renderDefaultHelp(width)
	}
}

func renderListHelp(width int, extra ...string) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("tab", "column"),
		helpKey("s/S", "sort"),
		helpKey("f", "filter"),
		helpKey("/", "search"),
		helpKey("x", "clear"),
		helpKey("enter", "actions"),
	}
	keys = append(keys, extra...)
	keys = append(keys, helpKey("1-4", "tabs"), helpKey("?", "help"))
	return renderHelpLine(keys, width)
}

func renderDetailHelp(width int) string {
	keys := []string{
		helpKey("esc", "back"),
		helpKey("y", "copy"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func renderFormHelp(width int) string {
	keys := []string{
		helpKey("tab", "next field"),
		helpKey("shift+tab", "prev field"),
		helpKey("ctrl+s", "save"),
		helpKey("esc", "cancel"),
	}
	return renderHelpLine(keys, width)
}

func renderDefaultHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("esc", "back"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).MaxHeight(1).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Navigation"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"g / G", "Jump to top / bottom"},
			{"[ / ]", "Previous / next page"},
			{"h / l", "Previous / next tab"},
			{"1 - 4", "Users, Contacts, Templates, Campaigns"},
			{"r", "Reload"},
			{"u / ctrl+r", "Undo / redo"},
			{"q", "Quit"},
			{"?", "Toggle help"},
		}),
		titleSection("Tables"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Cycle active column"},
			{"s", "Sort active column (asc, desc, off)"},
			{"S", "Add active column to multi-sort"},
			{"f", "Filter active column"},
			{"/", "Search all columns"},
			{"x", "Clear all filters"},
			{"c / C", "Hide active column / show all"},
			{"space", "Select row"},
			{"ctrl+a", "Select page"},
			{"enter", "Row actions"},
			{"D", "Delete selected"},
			{"E", "Email selected contacts"},
		}),
		titleSection("Records"),
		helpSection([]helpItem{
			{"a", "Add"},
			{"e", "Edit row"},
			{"y", "Copy (detail screen)"},
		}),
		titleSection("Forms"),
		helpSection([]helpItem{
			{"tab", "Next field"},
			{"shift+tab", "Previous field"},
			{"ctrl+s", "Save"},
			{"esc", "Cancel"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
