package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"crmdash/internal/model"
	"crmdash/internal/util"
)

type formField struct {
	label string
	input textinput.Model
}

// form is the field list shared by the edit forms. An optional textarea
// follows the single-line inputs in focus order.
type form struct {
	title   string
	fields  []formField
	body    *textarea.Model
	label   string // body label
	focused int
	keys    FormKeyMap
	error   string
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	return in
}

func newForm(title string, fields ...formField) form {
	f := form{title: title, fields: fields, keys: DefaultFormKeyMap()}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f *form) withBody(label, placeholder string) {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 20000
	ta.SetHeight(8)
	f.body = &ta
	f.label = label
}

func (f *form) size() int {
	if f.body != nil {
		return len(f.fields) + 1
	}
	return len(f.fields)
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

func (f *form) bodyValue() string {
	if f.body == nil {
		return ""
	}
	return f.body.Value()
}

func (f *form) focus(i int) {
	if f.focused < len(f.fields) {
		f.fields[f.focused].input.Blur()
	} else if f.body != nil {
		f.body.Blur()
	}
	f.focused = i
	if f.focused < len(f.fields) {
		f.fields[f.focused].input.Focus()
	} else if f.body != nil {
		f.body.Focus()
	}
}

func (f *form) nextField() {
	f.focus((f.focused + 1) % f.size())
}

func (f *form) prevField() {
	f.focus((f.focused - 1 + f.size()) % f.size())
}

// onBody reports whether the textarea has focus; arrows then move its cursor.
func (f *form) onBody() bool {
	return f.body != nil && f.focused == len(f.fields)
}

// handleKey routes navigation keys and forwards the rest to the focused
// input. save is called on ctrl+s.
func (f *form) handleKey(msg tea.Msg, save func() tea.Cmd) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, f.keys.Cancel):
			return msgCmd(model.FormCancelledMsg{})
		case key.Matches(k, f.keys.Save):
			return save()
		case k.Type == tea.KeyTab || k.Type == tea.KeyShiftTab:
			if k.Type == tea.KeyTab {
				f.nextField()
			} else {
				f.prevField()
			}
			return nil
		case !f.onBody() && key.Matches(k, f.keys.NextField):
			f.nextField()
			return nil
		case !f.onBody() && key.Matches(k, f.keys.PrevField):
			f.prevField()
			return nil
		}
	}

	var cmd tea.Cmd
	if f.onBody() {
		*f.body, cmd = f.body.Update(msg)
		return cmd
	}
	f.fields[f.focused].input, cmd = f.fields[f.focused].input.Update(msg)
	return cmd
}

const (
	// border, padding, prompt and cursor of a bordered input
	fieldChrome = 2 + 2 + 3
	// panel border and padding, top plus bottom
	panelChromeY     = 2 + 2
	formBodyLines    = 8
	compactBodyLines = 4
)

// View renders the form within width x height. When the bordered layout
// does not fit, fields collapse to one "label input" line each. Errors go
// right under the title so they survive any clipping below.
func (f *form) View(width, height int, extra ...string) string {
	content := max(width-4-4, 20)
	head := []string{LabelStyle.Render(f.title)}
	if f.error != "" {
		head = append(head, ErrorStyle.Render(f.error))
	}

	inner := max(content-fieldChrome, 10)
	var parts []string
	for i := range f.fields {
		f.fields[i].input.Width = inner
		parts = append(parts, renderFormField(f.fields[i].label, f.fields[i].input.View(), i == f.focused, inner+3))
	}
	if f.body != nil {
		f.body.SetWidth(content - 4)
		f.body.SetHeight(formBodyLines)
		parts = append(parts, renderFormField(f.label, f.body.View(), f.onBody(), content-4))
	}

	page := strings.Join(append(append(head, parts...), extra...), "\n")
	if height > 0 && lipgloss.Height(page)+panelChromeY > height {
		page = strings.Join(append(append(head, f.compactFields(content)...), extra...), "\n")
	}

	return PanelStyle.
		Width(content + 4).
		Render(page)
}

func (f *form) compactFields(content int) []string {
	labelWidth := 0
	for _, fld := range f.fields {
		labelWidth = max(labelWidth, lipgloss.Width(fld.label))
	}
	labelWidth = min(labelWidth, content/3)
	// marker, label and gap come before the input
	inner := max(content-2-labelWidth-1-3, 10)

	var lines []string
	for i := range f.fields {
		f.fields[i].input.Width = inner
		lines = append(lines, renderCompactField(f.fields[i].label, labelWidth, f.fields[i].input.View(), i == f.focused))
	}
	if f.body != nil {
		f.body.SetWidth(content - 2)
		f.body.SetHeight(compactBodyLines)
		lines = append(lines,
			focusMarker(f.onBody())+LabelStyle.Render(util.TruncateString(f.label, content-2)),
			lipgloss.NewStyle().PaddingLeft(2).Render(f.body.View()))
	}
	return lines
}

func focusMarker(focused bool) string {
	if focused {
		return HelpKeyStyle.Render("▸ ")
	}
	return "  "
}

func renderCompactField(label string, labelWidth int, input string, focused bool) string {
	l := LabelStyle.Width(labelWidth).Render(util.TruncateString(label, labelWidth))
	return lipgloss.JoinHorizontal(lipgloss.Top, focusMarker(focused), l, " ", input)
}

func renderFormField(label, input string, focused bool, width int) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}

	field := lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render(util.TruncateString(label, width)),
		input,
	)

	return style.Render(field)
}

// parseYesNo accepts yes/no style answers; blank yields def.
func parseYesNo(s string, def bool) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, true
	case "y", "yes", "true", "1", "active":
		return true, true
	case "n", "no", "false", "0", "inactive":
		return false, true
	default:
		return false, false
	}
}
