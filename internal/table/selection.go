package table

// SelectionEnabled reports whether rows can be selected.
func (t *Table[T]) SelectionEnabled() bool { return t.opts.EnableRowSelection }

// ToggleRow flips the selection of the row identified by key.
func (t *Table[T]) ToggleRow(key string) bool {
	if !t.opts.EnableRowSelection || key == "" {
		return false
	}
	if t.state.RowSelection[key] {
		delete(t.state.RowSelection, key)
	} else {
		t.state.RowSelection[key] = true
	}
	return true
}

// IsSelected reports whether the row identified by key is selected.
func (t *Table[T]) IsSelected(key string) bool { return t.state.RowSelection[key] }

// ToggleAllPage selects every row of the current page, or deselects them
// all when the page is already fully selected.
func (t *Table[T]) ToggleAllPage() bool {
	if !t.opts.EnableRowSelection {
		return false
	}
	page := t.PageRows()
	if len(page) == 0 {
		return false
	}
	selectAll := t.HeaderState() != HeaderAll
	for _, r := range page {
		if selectAll {
			t.state.RowSelection[r.Key] = true
		} else {
			delete(t.state.RowSelection, r.Key)
		}
	}
	return true
}

// HeaderState is the select-all checkbox state for the current page.
func (t *Table[T]) HeaderState() HeaderState {
	page := t.PageRows()
	selected := 0
	for _, r := range page {
		if r.Selected {
			selected++
		}
	}
	switch {
	case selected == 0:
		return HeaderOff
	case selected == len(page):
		return HeaderAll
	default:
		return HeaderIndeterminate
	}
}

// SelectedRows returns the selected rows in data order. Keys that no
// longer resolve to a row are skipped.
func (t *Table[T]) SelectedRows() []T {
	if len(t.state.RowSelection) == 0 {
		return nil
	}
	var out []T
	for i := range t.data {
		if t.state.RowSelection[t.key(i)] {
			out = append(out, t.data[i])
		}
	}
	return out
}

// SelectedCount returns the number of selected rows that resolve.
func (t *Table[T]) SelectedCount() int { return len(t.SelectedRows()) }

// ClearSelection deselects everything.
func (t *Table[T]) ClearSelection() {
	clear(t.state.RowSelection)
}

// DeleteSelected hands the selected rows to OnDeleteSelected.
func (t *Table[T]) DeleteSelected() bool {
	return t.bulk(t.opts.OnDeleteSelected)
}

// SendEmailSelected hands the selected rows to OnSendEmailSelected.
func (t *Table[T]) SendEmailSelected() bool {
	return t.bulk(t.opts.OnSendEmailSelected)
}

func (t *Table[T]) bulk(fn func([]T)) bool {
	if fn == nil {
		return false
	}
	rows := t.SelectedRows()
	if len(rows) == 0 {
		return false
	}
	fn(rows)
	return true
}
