package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"crmdash/internal/table"
	"crmdash/internal/util"
)

const (
	checkboxWidth  = 5
	actionsWidth   = 4
	minColumnWidth = 10
)

type inputTarget int

const (
	inputNone inputTarget = iota
	inputColumn
	inputGlobal
)

// tableView renders a table.Table and maps nav-mode keys onto it.
type tableView[T any] struct {
	name  string
	table *table.Table[T]
	keys  KeyMap

	cursor int // index into the current page
	active int // index into table.Columns(); -1 when nothing is visible

	input       textinput.Model
	target      inputTarget
	targetID    string
	beforeInput string

	menuOpen  bool
	menuIndex int

	emptyText string
	info      string
	pending   []tea.Cmd
}

func newTableView[T any](name, emptyText string) *tableView[T] {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 120
	return &tableView[T]{
		name:      name,
		keys:      DefaultKeyMap(),
		input:     in,
		emptyText: emptyText,
	}
}

// mount builds the table. Callbacks in opts may close over v.
func (v *tableView[T]) mount(opts table.Options[T]) error {
	t, err := table.New(opts)
	if err != nil {
		return fmt.Errorf("failed to build %s table: %w", v.name, err)
	}
	v.table = t
	v.table.SetLoading(true)
	v.ensureActive()
	return nil
}

// emit queues a command produced by a table callback.
func (v *tableView[T]) emit(cmd tea.Cmd) {
	if cmd != nil {
		v.pending = append(v.pending, cmd)
	}
}

func (v *tableView[T]) flush() tea.Cmd {
	if len(v.pending) == 0 {
		return nil
	}
	cmds := v.pending
	v.pending = nil
	return tea.Batch(cmds...)
}

func (v *tableView[T]) setInfo(format string, args ...any) {
	v.info = fmt.Sprintf(format, args...)
}

// Name identifies the table in persisted preferences.
func (v *tableView[T]) Name() string { return v.name }

// TakeInfo returns and clears the last status notice.
func (v *tableView[T]) TakeInfo() string {
	s := v.info
	v.info = ""
	return s
}

// Capturing reports whether a filter input or the actions menu is open.
func (v *tableView[T]) Capturing() bool {
	return v.target != inputNone || v.menuOpen
}

// SetData replaces the rows and ends any loading state.
func (v *tableView[T]) SetData(rows []T) {
	v.table.SetData(rows)
	v.table.SetLoading(false)
	v.table.SetFetching(false)
	v.clampCursor()
}

func (v *tableView[T]) activeColumn() (table.Column[T], bool) {
	cols := v.table.Columns()
	if v.active < 0 || v.active >= len(cols) {
		return table.Column[T]{}, false
	}
	return cols[v.active], v.table.IsVisible(cols[v.active].ID)
}

func (v *tableView[T]) ensureActive() {
	if _, ok := v.activeColumn(); ok {
		return
	}
	for i, c := range v.table.Columns() {
		if v.table.IsVisible(c.ID) {
			v.active = i
			return
		}
	}
	v.active = -1
}

func (v *tableView[T]) moveColumn(delta int) {
	cols := v.table.Columns()
	if len(cols) == 0 || len(v.table.VisibleColumns()) == 0 {
		return
	}
	i := v.active
	for range cols {
		i = (i + delta + len(cols)) % len(cols)
		if v.table.IsVisible(cols[i].ID) {
			v.active = i
			return
		}
	}
}

func (v *tableView[T]) clampCursor() {
	n := len(v.table.PageRows())
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// CurrentRow returns the row under the cursor.
func (v *tableView[T]) CurrentRow() (table.RowView[T], bool) {
	page := v.table.PageRows()
	if v.cursor < 0 || v.cursor >= len(page) {
		return table.RowView[T]{}, false
	}
	return page[v.cursor], true
}

// ApplyPrefs restores persisted sort, visibility and active column.
// Commands queued while restoring are dropped; callers load afterwards.
func (v *tableView[T]) ApplyPrefs(p TablePrefs) {
	v.table.SetHidden(p.HiddenColumns)
	if len(p.Sorting) > 0 {
		v.table.SetSorting(sortKeys(p.Sorting))
	}
	for i, c := range v.table.Columns() {
		if c.ID == p.ActiveColumn {
			v.active = i
			break
		}
	}
	v.ensureActive()
	v.clampCursor()
	v.pending = nil
}

// StopLoading clears the loading flags, e.g. after a failed load.
func (v *tableView[T]) StopLoading() {
	v.table.SetLoading(false)
	v.table.SetFetching(false)
}

// Prefs captures the state worth persisting.
func (v *tableView[T]) Prefs() TablePrefs {
	p := TablePrefs{
		Sorting:       sortPrefs(v.table.Sorting()),
		HiddenColumns: v.table.HiddenColumns(),
	}
	if c, ok := v.activeColumn(); ok {
		p.ActiveColumn = c.ID
	}
	return p
}

// HandleKey applies a nav-mode key to the table.
func (v *tableView[T]) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if v.target != inputNone {
		cmd := v.handleInput(msg)
		return true, tea.Batch(cmd, v.flush())
	}
	if v.menuOpen {
		v.handleMenu(msg)
		return true, v.flush()
	}

	k := v.keys
	switch {
	case key.Matches(msg, k.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, k.Down):
		if v.cursor < len(v.table.PageRows())-1 {
			v.cursor++
		}
	case key.Matches(msg, k.Top):
		v.cursor = 0
	case key.Matches(msg, k.Bottom):
		v.cursor = len(v.table.PageRows()) - 1
		v.clampCursor()
	case key.Matches(msg, k.NextColumn):
		v.moveColumn(1)
	case key.Matches(msg, k.PrevColumn):
		v.moveColumn(-1)
	case key.Matches(msg, k.Sort), key.Matches(msg, k.MultiSort):
		c, ok := v.activeColumn()
		if !ok || !c.Sortable {
			v.setInfo("Column is not sortable")
			break
		}
		if key.Matches(msg, k.MultiSort) {
			v.table.ToggleMultiSort(c.ID)
		} else {
			v.table.ToggleSort(c.ID)
		}
		v.setInfo("Sort: %s", v.sortSummary())
		v.clampCursor()
	case key.Matches(msg, k.Filter):
		c, ok := v.activeColumn()
		if !ok || !c.Filterable {
			v.setInfo("Column is not filterable")
			break
		}
		return true, v.openInput(inputColumn, c.ID, v.table.ColumnFilter(c.ID), v.table.Placeholder(c.ID))
	case key.Matches(msg, k.Search):
		return true, v.openInput(inputGlobal, "", v.table.GlobalFilter(), "Search...")
	case key.Matches(msg, k.ClearFilter):
		if v.table.ClearAllFilters() {
			v.setInfo("Filters cleared")
			v.clampCursor()
		}
	case key.Matches(msg, k.ToggleRow):
		row, ok := v.CurrentRow()
		if !ok || !v.table.ToggleRow(row.Key) {
			break
		}
		v.setInfo("%s selected", util.Plural(v.table.SelectedCount(), "row"))
	case key.Matches(msg, k.TogglePage):
		if v.table.ToggleAllPage() {
			v.setInfo("%s selected", util.Plural(v.table.SelectedCount(), "row"))
		}
	case key.Matches(msg, k.HideColumn):
		c, ok := v.activeColumn()
		if !ok {
			break
		}
		if !v.table.ToggleColumnVisibility(c.ID) {
			v.setInfo("%s cannot be hidden", v.table.ColumnTitle(c.ID))
			break
		}
		v.setInfo("%s hidden (C to show all)", v.table.ColumnTitle(c.ID))
		v.moveColumn(1)
		v.ensureActive()
	case key.Matches(msg, k.ShowColumns):
		v.table.ShowAllColumns()
		v.ensureActive()
		v.setInfo("All columns shown")
	case key.Matches(msg, k.NextPage):
		if v.table.NextPage() {
			v.cursor = 0
		}
	case key.Matches(msg, k.PrevPage):
		if v.table.PrevPage() {
			v.cursor = 0
		}
	case key.Matches(msg, k.Actions):
		row, ok := v.CurrentRow()
		if !ok || !v.table.HasActions() {
			return false, nil
		}
		if len(v.table.RowActions(row.Row)) > 0 {
			v.menuOpen = true
			v.menuIndex = 0
		}
	case key.Matches(msg, k.BulkDelete):
		if !v.table.SelectionEnabled() {
			return false, nil
		}
		if !v.table.DeleteSelected() {
			v.setInfo("No rows selected")
		}
	case key.Matches(msg, k.BulkEmail):
		if !v.table.SelectionEnabled() {
			return false, nil
		}
		if !v.table.SendEmailSelected() {
			v.setInfo("No rows selected")
		}
	default:
		return false, nil
	}
	return true, v.flush()
}

func (v *tableView[T]) openInput(target inputTarget, id, value, placeholder string) tea.Cmd {
	v.target = target
	v.targetID = id
	v.beforeInput = value
	v.input.Placeholder = placeholder
	v.input.SetValue(value)
	v.input.CursorEnd()
	return v.input.Focus()
}

func (v *tableView[T]) closeInput() {
	v.target = inputNone
	v.targetID = ""
	v.input.Blur()
}

func (v *tableView[T]) handleInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		v.closeInput()
		return nil
	case tea.KeyEsc:
		v.applyInput(v.beforeInput)
		v.closeInput()
		return nil
	}
	var cmd tea.Cmd
	before := v.input.Value()
	v.input, cmd = v.input.Update(msg)
	if after := v.input.Value(); after != before {
		v.applyInput(after)
	}
	return cmd
}

func (v *tableView[T]) applyInput(value string) {
	switch v.target {
	case inputColumn:
		v.table.SetColumnFilter(v.targetID, value)
	case inputGlobal:
		v.table.SetGlobalFilter(value)
	}
	v.cursor = 0
}

func (v *tableView[T]) handleMenu(msg tea.KeyMsg) {
	row, ok := v.CurrentRow()
	if !ok {
		v.menuOpen = false
		return
	}
	items := v.table.RowActions(row.Row)
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.menuIndex > 0 {
			v.menuIndex--
		}
	case key.Matches(msg, v.keys.Down):
		if v.menuIndex < len(items)-1 {
			v.menuIndex++
		}
	case key.Matches(msg, v.keys.Actions):
		v.menuOpen = false
		v.table.RunAction(row.Row, v.menuIndex)
		v.clampCursor()
	case key.Matches(msg, v.keys.Back):
		v.menuOpen = false
	}
}

func (v *tableView[T]) sortSummary() string {
	keys := v.table.Sorting()
	if len(keys) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, v.table.ColumnTitle(k.ColumnID)+" "+k.Direction.String())
	}
	return strings.Join(parts, ", ")
}

// TableMeta summarizes active column, sort and filters for the status bar.
func (v *tableView[T]) TableMeta() string {
	var parts []string
	if c, ok := v.activeColumn(); ok {
		parts = append(parts, "col "+strings.ToUpper(v.table.ColumnTitle(c.ID)))
	}
	if len(v.table.Sorting()) > 0 {
		parts = append(parts, "sort "+v.sortSummary())
	}
	state := v.table.State()
	for _, id := range sortedFilterIDs(state.ColumnFilters) {
		parts = append(parts, fmt.Sprintf("%s~%q", v.table.ColumnTitle(id), state.ColumnFilters[id]))
	}
	if state.GlobalFilter != "" {
		parts = append(parts, fmt.Sprintf("search %q", state.GlobalFilter))
	}
	return strings.Join(parts, "  ·  ")
}

// View renders the table into width x height. frame is the spinner frame
// shown while loading.
func (v *tableView[T]) View(width, height int, frame string) string {
	cols := v.table.VisibleColumns()
	widths := v.columnWidths(cols, width)

	var lines []string
	if v.target == inputGlobal || v.table.GlobalFilter() != "" {
		lines = append(lines, v.renderSearchLine())
	}
	lines = append(lines, v.renderHeader(cols, widths))
	if v.target == inputColumn || len(v.table.State().ColumnFilters) > 0 {
		lines = append(lines, v.renderFilterRow(cols, widths))
	}
	lines = append(lines, renderTableDivider(widths))

	bodyHeight := height - len(lines) - 2
	if v.menuOpen {
		bodyHeight -= len(v.menuItems()) + 2
	}
	lines = append(lines, v.renderBody(cols, widths, frame, bodyHeight)...)

	if v.menuOpen {
		lines = append(lines, v.renderMenu())
	}
	lines = append(lines, "", v.renderPager())
	return strings.Join(lines, "\n")
}

func (v *tableView[T]) columnWidths(cols []table.Column[T], width int) []int {
	widths := make([]int, 0, len(cols)+2)
	total := 0
	if v.table.SelectionEnabled() {
		widths = append(widths, checkboxWidth)
		total += checkboxWidth
	}
	for _, c := range cols {
		w := c.Width
		if w <= 0 {
			w = minColumnWidth
		}
		w = max(w, lipgloss.Width(v.table.HeaderLabel(c))+4)
		widths = append(widths, w)
		total += w
	}
	if v.table.HasActions() {
		widths = append(widths, actionsWidth)
		total += actionsWidth
	}
	if len(cols) > 0 {
		last := len(widths) - 1
		if v.table.HasActions() {
			last--
		}
		if extra := width - total - 2; extra > 0 {
			widths[last] += extra
		}
	}
	return widths
}

func (v *tableView[T]) renderSearchLine() string {
	label := LabelStyle.Render("Search: ")
	if v.target == inputGlobal {
		return label + v.input.View()
	}
	return label + FilterRowStyle.Render(v.table.GlobalFilter())
}

func (v *tableView[T]) renderHeader(cols []table.Column[T], widths []int) string {
	cells := make([]string, 0, len(widths))
	if v.table.SelectionEnabled() {
		cells = append(cells, headerCheckbox(v.table.HeaderState()))
	}
	active, _ := v.activeColumn()
	for _, c := range cols {
		label := v.table.HeaderLabel(c)
		if c.ID == active.ID {
			label = "❋ " + label
		}
		cells = append(cells, label)
	}
	if v.table.HasActions() {
		cells = append(cells, "")
	}
	return renderTableRow(cells, widths, TableHeaderStyle)
}

func (v *tableView[T]) renderFilterRow(cols []table.Column[T], widths []int) string {
	cells := make([]string, 0, len(widths))
	if v.table.SelectionEnabled() {
		cells = append(cells, "")
	}
	for i, c := range cols {
		w := widths[i]
		if v.table.SelectionEnabled() {
			w = widths[i+1]
		}
		switch {
		case v.target == inputColumn && v.targetID == c.ID:
			v.input.Width = max(w-3, 1)
			cells = append(cells, v.input.View())
		case v.table.ColumnFilter(c.ID) != "":
			cells = append(cells, util.TruncateString("~"+v.table.ColumnFilter(c.ID), w-1))
		default:
			cells = append(cells, "")
		}
	}
	if v.table.HasActions() {
		cells = append(cells, "")
	}
	return renderTableRow(cells, widths, FilterRowStyle)
}

func (v *tableView[T]) renderBody(cols []table.Column[T], widths []int, frame string, height int) []string {
	span := 0
	for _, w := range widths {
		span += w
	}
	switch v.table.Status() {
	case table.StatusLoading:
		return []string{NormalRowStyle.Width(span).Render(" " + frame + " Loading...")}
	case table.StatusEmpty:
		text := "No results"
		if len(cols) == 0 {
			text = "No results (all columns hidden, C to show)"
		} else if !v.table.HasFilters() && v.emptyText != "" {
			text = v.emptyText
		}
		return []string{EmptyStateStyle.Width(span).Render(" " + text)}
	}

	var rows []string
	mark := ""
	if v.table.HasActions() {
		mark = "⋯"
	}
	for i, r := range v.table.PageRows() {
		if height > 0 && i >= height {
			break
		}
		style := NormalRowStyle
		if i%2 == 1 {
			style = style.Background(ColorStripe)
		}
		if i == v.cursor {
			style = SelectedRowStyle
		}
		cells := make([]string, 0, len(widths))
		if v.table.SelectionEnabled() {
			cells = append(cells, rowCheckbox(r.Selected))
		}
		for j, c := range cols {
			w := widths[j]
			if v.table.SelectionEnabled() {
				w = widths[j+1]
			}
			cell := util.TruncateString(v.table.Cell(r.Row, c), w-1)
			if c.Kind == table.KindBadge && cell != "" && i != v.cursor {
				cell = BadgeStyle.Render(cell)
			}
			cells = append(cells, cell)
		}
		if v.table.HasActions() {
			cells = append(cells, mark)
		}
		rows = append(rows, renderTableRow(cells, widths, style))
	}
	return rows
}

func (v *tableView[T]) menuItems() []table.ActionItem[T] {
	row, ok := v.CurrentRow()
	if !ok {
		return nil
	}
	return v.table.RowActions(row.Row)
}

func (v *tableView[T]) renderMenu() string {
	items := v.menuItems()
	lines := make([]string, 0, len(items))
	for i, item := range items {
		label := item.Label
		if item.Icon != "" {
			label = item.Icon + " " + label
		}
		style := MenuItemStyle
		if item.Style == table.ActionDestructive {
			style = DestructiveStyle
		}
		if i == v.menuIndex {
			style = MenuActiveStyle
		}
		lines = append(lines, style.Render(label))
	}
	return MenuStyle.Render(strings.Join(lines, "\n"))
}

func (v *tableView[T]) renderPager() string {
	parts := []string{
		fmt.Sprintf("Page %d of %d", v.table.PageIndex()+1, v.table.PageCount()),
		util.Plural(v.table.RowCount(), "row"),
	}
	if v.table.Mode() == table.ClientSide && v.table.HasFilters() {
		parts[1] = fmt.Sprintf("%s of %s", util.FormatCount(v.table.RowCount()), util.Plural(len(v.table.Data()), "row"))
	}
	if n := v.table.SelectedCount(); n > 0 {
		parts = append(parts, util.FormatCount(n)+" selected")
	}
	if meta := v.TableMeta(); meta != "" {
		parts = append(parts, meta)
	}
	return StatusBarStyle.Render(strings.Join(parts, "  ·  "))
}

func headerCheckbox(s table.HeaderState) string {
	switch s {
	case table.HeaderAll:
		return "[x]"
	case table.HeaderIndeterminate:
		return "[-]"
	default:
		return "[ ]"
	}
}

func rowCheckbox(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		parts = append(parts, style.Width(widths[i]).MaxWidth(widths[i]).Render(" "+cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderTableDivider(widths []int) string {
	total := 0
	for _, w := range widths {
		total += w
	}
	return lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("─", total))
}

func sortedFilterIDs(filters map[string]string) []string {
	ids := make([]string, 0, len(filters))
	for id := range filters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
