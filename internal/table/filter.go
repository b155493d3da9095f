package table

import "strings"

// SetColumnFilter sets the filter value of a filterable column. An empty
// value clears it. Unknown or non-filterable columns are ignored.
func (t *Table[T]) SetColumnFilter(id, value string) bool {
	c, ok := t.Column(id)
	if !ok || !c.Filterable {
		return false
	}
	if strings.TrimSpace(value) == "" {
		return t.ClearColumnFilter(id)
	}
	t.state.ColumnFilters[id] = value
	t.pageIndex = 0
	if t.opts.OnFilterChange != nil {
		t.opts.OnFilterChange(id, value)
	}
	t.rebuild()
	return true
}

// ColumnFilter returns the filter value of column id.
func (t *Table[T]) ColumnFilter(id string) string {
	return t.state.ColumnFilters[id]
}

// ClearColumnFilter removes the filter of column id.
func (t *Table[T]) ClearColumnFilter(id string) bool {
	if _, ok := t.state.ColumnFilters[id]; !ok {
		return false
	}
	delete(t.state.ColumnFilters, id)
	t.pageIndex = 0
	switch {
	case t.opts.OnClearFilter != nil:
		t.opts.OnClearFilter(id)
	case t.opts.OnFilterChange != nil:
		t.opts.OnFilterChange(id, "")
	}
	t.rebuild()
	return true
}

// ClearAllFilters removes every column filter and the global filter.
func (t *Table[T]) ClearAllFilters() bool {
	if len(t.state.ColumnFilters) == 0 && t.state.GlobalFilter == "" {
		return false
	}
	hadGlobal := t.state.GlobalFilter != ""
	t.state.ColumnFilters = make(map[string]string)
	t.state.GlobalFilter = ""
	t.pageIndex = 0
	if t.opts.OnClearAllFilters != nil {
		t.opts.OnClearAllFilters()
	}
	if hadGlobal && t.opts.OnGlobalSearchChange != nil {
		t.opts.OnGlobalSearchChange("")
	}
	t.rebuild()
	return true
}

// SetGlobalFilter sets the search term matched across searchable columns.
func (t *Table[T]) SetGlobalFilter(term string) {
	if term == t.state.GlobalFilter {
		return
	}
	t.state.GlobalFilter = term
	t.pageIndex = 0
	if t.opts.OnGlobalSearchChange != nil {
		t.opts.OnGlobalSearchChange(term)
	}
	t.rebuild()
}

// GlobalFilter returns the current search term.
func (t *Table[T]) GlobalFilter() string { return t.state.GlobalFilter }

// HasFilters reports whether any column or global filter is active.
func (t *Table[T]) HasFilters() bool {
	return len(t.state.ColumnFilters) > 0 || t.state.GlobalFilter != ""
}

// matches applies the client-side predicates. Server-side tables render
// their data verbatim.
func (t *Table[T]) matches(row T) bool {
	if t.Mode() == ServerSide {
		return true
	}
	for id, value := range t.state.ColumnFilters {
		i, ok := t.byID[id]
		if !ok {
			continue
		}
		if !columnMatch(t.columns[i].Match, t.accessors[i](row), value) {
			return false
		}
	}
	if t.opts.OnGlobalSearchChange == nil {
		return t.globalMatch(row, t.state.GlobalFilter)
	}
	return true
}

func columnMatch(mode MatchMode, v any, filter string) bool {
	want := strings.ToLower(strings.TrimSpace(filter))
	if want == "" {
		return true
	}
	s, ok := stringValue(v)
	if !ok {
		return false
	}
	got := strings.ToLower(strings.TrimSpace(s))
	if mode == MatchExact {
		return got == want
	}
	return strings.Contains(got, want)
}

func (t *Table[T]) globalMatch(row T, term string) bool {
	want := strings.ToLower(term)
	if want == "" {
		return true
	}
	for _, i := range t.searchIndexes() {
		s, ok := stringValue(t.accessors[i](row))
		if ok && strings.Contains(strings.ToLower(s), want) {
			return true
		}
	}
	return false
}

func (t *Table[T]) searchIndexes() []int {
	if len(t.opts.SearchColumns) == 0 {
		idxs := make([]int, len(t.columns))
		for i := range t.columns {
			idxs[i] = i
		}
		return idxs
	}
	idxs := make([]int, 0, len(t.opts.SearchColumns))
	for _, id := range t.opts.SearchColumns {
		if i, ok := t.byID[id]; ok {
			idxs = append(idxs, i)
		}
	}
	return idxs
}
