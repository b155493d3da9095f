package table

// ViewDetailsLabel is the label of the fixed first row action.
const ViewDetailsLabel = "View Details"

// HasActions reports whether the actions column is shown.
func (t *Table[T]) HasActions() bool { return t.opts.ShowActionsColumn }

// RowActions returns the contextual menu of row: "View Details" followed by
// the caller's items.
func (t *Table[T]) RowActions(row T) []ActionItem[T] {
	if !t.opts.ShowActionsColumn {
		return nil
	}
	items := make([]ActionItem[T], 0, len(t.opts.ActionItems)+1)
	items = append(items, ActionItem[T]{
		Label:   ViewDetailsLabel,
		Icon:    "👁",
		Handler: t.opts.OnViewDetails,
	})
	return append(items, t.opts.ActionItems...)
}

// RunAction invokes the i-th entry of RowActions(row).
func (t *Table[T]) RunAction(row T, i int) bool {
	items := t.RowActions(row)
	if i < 0 || i >= len(items) || items[i].Handler == nil {
		return false
	}
	items[i].Handler(row)
	return true
}
