package table

import (
	"slices"
)

// ToggleSort advances column id through none -> asc -> desc -> none and makes
// it the only sort key. Non-sortable columns are ignored.
func (t *Table[T]) ToggleSort(id string) bool {
	c, ok := t.Column(id)
	if !ok || !c.Sortable {
		return false
	}
	dir := t.SortDirection(id).next()
	t.state.Sorting = t.state.Sorting[:0]
	if dir != None {
		t.state.Sorting = append(t.state.Sorting, SortKey{ColumnID: id, Direction: dir})
	}
	t.sortChanged()
	return true
}

// ToggleMultiSort advances column id through the sort cycle and moves it to
// the front of the sort list, keeping older keys as tie-breakers.
func (t *Table[T]) ToggleMultiSort(id string) bool {
	c, ok := t.Column(id)
	if !ok || !c.Sortable {
		return false
	}
	dir := t.SortDirection(id).next()
	keys := slices.DeleteFunc(t.state.Sorting, func(k SortKey) bool { return k.ColumnID == id })
	if dir != None {
		keys = slices.Insert(keys, 0, SortKey{ColumnID: id, Direction: dir})
	}
	t.state.Sorting = keys
	t.sortChanged()
	return true
}

// SortDirection returns the direction column id is sorted in.
func (t *Table[T]) SortDirection(id string) Direction {
	for _, k := range t.state.Sorting {
		if k.ColumnID == id {
			return k.Direction
		}
	}
	return None
}

// Sorting returns a copy of the ordered sort list.
func (t *Table[T]) Sorting() []SortKey { return slices.Clone(t.state.Sorting) }

// SetSorting replaces the sort list, dropping keys for unknown or
// non-sortable columns. Used to restore saved preferences.
func (t *Table[T]) SetSorting(keys []SortKey) {
	out := make([]SortKey, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		c, ok := t.Column(k.ColumnID)
		if !ok || !c.Sortable || k.Direction == None || seen[k.ColumnID] {
			continue
		}
		seen[k.ColumnID] = true
		out = append(out, k)
	}
	t.state.Sorting = out
	t.sortChanged()
}

// ClearSort removes every sort key.
func (t *Table[T]) ClearSort() {
	if len(t.state.Sorting) == 0 {
		return
	}
	t.state.Sorting = nil
	t.sortChanged()
}

func (t *Table[T]) sortChanged() {
	if t.opts.OnSortChange != nil {
		t.opts.OnSortChange(slices.Clone(t.state.Sorting))
	}
	t.rebuild()
}

// sortRows orders data indexes by the sort list. Absent values go last
// regardless of direction; ties keep data order.
func (t *Table[T]) sortRows(rows []int) {
	if len(t.state.Sorting) == 0 {
		return
	}
	type key struct {
		acc  func(T) any
		desc bool
	}
	keys := make([]key, 0, len(t.state.Sorting))
	for _, k := range t.state.Sorting {
		i, ok := t.byID[k.ColumnID]
		if !ok {
			continue
		}
		keys = append(keys, key{acc: t.accessors[i], desc: k.Direction == Descending})
	}
	slices.SortStableFunc(rows, func(a, b int) int {
		for _, k := range keys {
			va, okA := present(k.acc(t.data[a]))
			vb, okB := present(k.acc(t.data[b]))
			switch {
			case !okA && !okB:
				continue
			case !okA:
				return 1
			case !okB:
				return -1
			}
			c := compareValues(va, vb)
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}
