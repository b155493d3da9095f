package table

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// DefaultPageSize is used when Options.PageSize is not positive.
const DefaultPageSize = 10

// Options configure a Table. Callbacks are optional; installing
// OnFilterChange switches the table to server-side filtering.
type Options[T any] struct {
	Columns []Column[T]
	// SearchColumns restricts the global filter to these column IDs.
	// Empty means every column.
	SearchColumns []string
	// ColumnTitles supplies filter placeholder text per column ID.
	ColumnTitles map[string]string
	PageSize     int
	// RowKey gives rows a stable identity. Without it rows are identified
	// by their position in the data slice.
	RowKey    func(row T) string
	Renderers map[string]RenderFunc

	EnableRowSelection bool
	ShowActionsColumn  bool
	ActionItems        []ActionItem[T]

	OnFilterChange       func(columnID, value string)
	OnClearFilter        func(columnID string)
	OnClearAllFilters    func()
	OnGlobalSearchChange func(value string)
	OnSortChange         func(sorting []SortKey)
	OnDeleteSelected     func(rows []T)
	OnSendEmailSelected  func(rows []T)
	OnViewDetails        func(row T)
}

// Table is the view state machine for one mounted table.
type Table[T any] struct {
	opts      Options[T]
	columns   []Column[T]
	byID      map[string]int
	accessors []func(T) any

	data  []T
	rows  []int // indexes into data after filtering and sorting
	state ViewState

	pageIndex int
	loading   bool
	fetching  bool
}

// New validates the column model and returns a table with fresh state.
func New[T any](opts Options[T]) (*Table[T], error) {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	t := &Table[T]{
		opts:      opts,
		columns:   slices.Clone(opts.Columns),
		byID:      make(map[string]int, len(opts.Columns)),
		accessors: make([]func(T) any, len(opts.Columns)),
		state:     newViewState(),
	}
	for i, c := range t.columns {
		if c.ID == "" {
			return nil, fmt.Errorf("column %d: %w", i, ErrEmptyColumnID)
		}
		if _, dup := t.byID[c.ID]; dup {
			return nil, fmt.Errorf("column %q: %w", c.ID, ErrDuplicateColumn)
		}
		t.byID[c.ID] = i
		t.accessors[i] = c.accessor()
	}
	t.rebuild()
	return t, nil
}

// Reset discards all view state, as if the table had been remounted.
func (t *Table[T]) Reset() {
	t.state = newViewState()
	t.pageIndex = 0
	t.rebuild()
}

// State returns a copy of the current view state.
func (t *Table[T]) State() ViewState {
	return ViewState{
		Sorting:          slices.Clone(t.state.Sorting),
		ColumnFilters:    maps.Clone(t.state.ColumnFilters),
		GlobalFilter:     t.state.GlobalFilter,
		ColumnVisibility: maps.Clone(t.state.ColumnVisibility),
		RowSelection:     maps.Clone(t.state.RowSelection),
	}
}

// SetData replaces the dataset. View state is kept.
func (t *Table[T]) SetData(data []T) {
	t.data = data
	t.rebuild()
}

// Data returns the dataset as delivered.
func (t *Table[T]) Data() []T { return t.data }

// SetLoading marks the initial load.
func (t *Table[T]) SetLoading(v bool) { t.loading = v }

// SetFetching marks a background refetch.
func (t *Table[T]) SetFetching(v bool) { t.fetching = v }

// Loading reports whether either loading flag is set.
func (t *Table[T]) Loading() bool { return t.loading || t.fetching }

// Mode reports the current filter mode.
func (t *Table[T]) Mode() FilterMode {
	if t.opts.OnFilterChange != nil {
		return ServerSide
	}
	return ClientSide
}

// SetFilterHandler installs or removes the server-side filter callback,
// switching the filter mode at runtime.
func (t *Table[T]) SetFilterHandler(fn func(columnID, value string)) {
	t.opts.OnFilterChange = fn
	t.rebuild()
}

// SetGlobalSearchHandler installs or removes the global search callback.
func (t *Table[T]) SetGlobalSearchHandler(fn func(value string)) {
	t.opts.OnGlobalSearchChange = fn
	t.rebuild()
}

// Columns returns the full column model in declaration order.
func (t *Table[T]) Columns() []Column[T] { return t.columns }

// Column looks up a column by ID.
func (t *Table[T]) Column(id string) (Column[T], bool) {
	i, ok := t.byID[id]
	if !ok {
		return Column[T]{}, false
	}
	return t.columns[i], true
}

// Value returns the raw cell value of row for column id.
func (t *Table[T]) Value(row T, id string) any {
	i, ok := t.byID[id]
	if !ok {
		return nil
	}
	return t.accessors[i](row)
}

// Rows returns the post-filter, post-sort row set.
func (t *Table[T]) Rows() []T {
	out := make([]T, len(t.rows))
	for i, idx := range t.rows {
		out[i] = t.data[idx]
	}
	return out
}

// RowCount is len(Rows()).
func (t *Table[T]) RowCount() int { return len(t.rows) }

// Status tells the view what the body should show.
func (t *Table[T]) Status() Status {
	if t.Loading() {
		return StatusLoading
	}
	if len(t.rows) == 0 || len(t.VisibleColumns()) == 0 {
		return StatusEmpty
	}
	return StatusReady
}

func (t *Table[T]) key(idx int) string {
	if t.opts.RowKey != nil {
		return t.opts.RowKey(t.data[idx])
	}
	return strconv.Itoa(idx)
}

// RowKey returns the selection key of the data row at index, or "" when
// index is out of range.
func (t *Table[T]) RowKey(index int) string {
	if index < 0 || index >= len(t.data) {
		return ""
	}
	return t.key(index)
}

// rebuild recomputes the row model from data and view state.
func (t *Table[T]) rebuild() {
	rows := make([]int, 0, len(t.data))
	for i := range t.data {
		if t.matches(t.data[i]) {
			rows = append(rows, i)
		}
	}
	if t.opts.OnSortChange == nil {
		t.sortRows(rows)
	}
	t.rows = rows
	t.clampPage()
}
