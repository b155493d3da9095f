package table

import "crmdash/internal/util"

// IsVisible reports whether column id is shown.
func (t *Table[T]) IsVisible(id string) bool {
	if _, ok := t.byID[id]; !ok {
		return false
	}
	visible, set := t.state.ColumnVisibility[id]
	return !set || visible
}

// VisibleColumns returns the shown columns in declaration order.
func (t *Table[T]) VisibleColumns() []Column[T] {
	out := make([]Column[T], 0, len(t.columns))
	for _, c := range t.columns {
		if t.IsVisible(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// HiddenColumns returns the IDs of hidden columns in declaration order.
func (t *Table[T]) HiddenColumns() []string {
	var out []string
	for _, c := range t.columns {
		if !t.IsVisible(c.ID) {
			out = append(out, c.ID)
		}
	}
	return out
}

// ToggleColumnVisibility shows or hides a hideable column.
func (t *Table[T]) ToggleColumnVisibility(id string) bool {
	c, ok := t.Column(id)
	if !ok || !c.Hideable {
		return false
	}
	if t.IsVisible(id) {
		t.state.ColumnVisibility[id] = false
	} else {
		delete(t.state.ColumnVisibility, id)
	}
	return true
}

// SetHidden hides the given columns and shows the rest. Unknown and
// non-hideable IDs are ignored.
func (t *Table[T]) SetHidden(ids []string) {
	clear(t.state.ColumnVisibility)
	for _, id := range ids {
		if c, ok := t.Column(id); ok && c.Hideable {
			t.state.ColumnVisibility[id] = false
		}
	}
}

// ShowAllColumns makes every column visible.
func (t *Table[T]) ShowAllColumns() {
	clear(t.state.ColumnVisibility)
}

// ColumnTitle resolves the display title of column id: the explicit Title,
// else the string Header, else the humanized ID.
func (t *Table[T]) ColumnTitle(id string) string {
	c, ok := t.Column(id)
	if !ok {
		return util.Humanize(id)
	}
	switch {
	case c.Title != "":
		return c.Title
	case c.Header != "":
		return c.Header
	default:
		return util.Humanize(c.ID)
	}
}

// Placeholder is the hint shown in an empty filter input for column id.
func (t *Table[T]) Placeholder(id string) string {
	if p, ok := t.opts.ColumnTitles[id]; ok && p != "" {
		return p
	}
	return "Filter " + t.ColumnTitle(id) + "..."
}

// HeaderLabel is the column title with its sort affordance.
func (t *Table[T]) HeaderLabel(c Column[T]) string {
	title := t.ColumnTitle(c.ID)
	if !c.Sortable {
		return title
	}
	switch t.SortDirection(c.ID) {
	case Ascending:
		return title + " ↑"
	case Descending:
		return title + " ↓"
	default:
		return title + " ↕"
	}
}
