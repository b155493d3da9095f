package table

// PageSize returns the fixed number of rows per page.
func (t *Table[T]) PageSize() int { return t.opts.PageSize }

// PageIndex returns the zero-based current page.
func (t *Table[T]) PageIndex() int { return t.pageIndex }

// PageCount returns the number of pages, at least 1.
func (t *Table[T]) PageCount() int {
	n := (len(t.rows) + t.opts.PageSize - 1) / t.opts.PageSize
	if n < 1 {
		return 1
	}
	return n
}

// CanPrevPage reports whether there is a page before the current one.
func (t *Table[T]) CanPrevPage() bool { return t.pageIndex > 0 }

// CanNextPage reports whether there is a page after the current one.
func (t *Table[T]) CanNextPage() bool { return t.pageIndex < t.PageCount()-1 }

// NextPage moves forward one page.
func (t *Table[T]) NextPage() bool {
	if !t.CanNextPage() {
		return false
	}
	t.pageIndex++
	return true
}

// PrevPage moves back one page.
func (t *Table[T]) PrevPage() bool {
	if !t.CanPrevPage() {
		return false
	}
	t.pageIndex--
	return true
}

// SetPageIndex jumps to page i, clamped to the valid range.
func (t *Table[T]) SetPageIndex(i int) {
	t.pageIndex = i
	t.clampPage()
}

func (t *Table[T]) clampPage() {
	if last := t.PageCount() - 1; t.pageIndex > last {
		t.pageIndex = last
	}
	if t.pageIndex < 0 {
		t.pageIndex = 0
	}
}

// pageBounds returns the slice bounds of the current page in t.rows.
func (t *Table[T]) pageBounds() (int, int) {
	start := t.pageIndex * t.opts.PageSize
	if start > len(t.rows) {
		start = len(t.rows)
	}
	end := start + t.opts.PageSize
	if end > len(t.rows) {
		end = len(t.rows)
	}
	return start, end
}

// PageRows returns the rows of the current page.
func (t *Table[T]) PageRows() []RowView[T] {
	start, end := t.pageBounds()
	out := make([]RowView[T], 0, end-start)
	for _, idx := range t.rows[start:end] {
		k := t.key(idx)
		out = append(out, RowView[T]{
			Key:      k,
			Index:    idx,
			Row:      t.data[idx],
			Selected: t.state.RowSelection[k],
		})
	}
	return out
}
