package table

// ColumnOption overrides a field of a column built by SimpleColumn or
// SortableColumn.
type ColumnOption[T any] func(*Column[T])

// SimpleColumn returns a filterable, hideable column reading key from the
// row, titled title.
func SimpleColumn[T any](key, title string, opts ...ColumnOption[T]) Column[T] {
	c := Column[T]{
		ID:          key,
		AccessorKey: key,
		Title:       title,
		Filterable:  true,
		Hideable:    true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// SortableColumn is SimpleColumn with a sort affordance on its header.
func SortableColumn[T any](key, title string, opts ...ColumnOption[T]) Column[T] {
	sortable := func(c *Column[T]) { c.Sortable = true }
	return SimpleColumn[T](key, title, append([]ColumnOption[T]{sortable}, opts...)...)
}

// WithID sets a column ID distinct from its accessor key.
func WithID[T any](id string) ColumnOption[T] {
	return func(c *Column[T]) { c.ID = id }
}

// WithAccessor reads the cell value through fn.
func WithAccessor[T any](fn func(T) any) ColumnOption[T] {
	return func(c *Column[T]) { c.Accessor = fn }
}

// WithKind sets the cell kind.
func WithKind[T any](kind Kind) ColumnOption[T] {
	return func(c *Column[T]) { c.Kind = kind }
}

// WithRenderer renders cells through the renderer registered as name.
func WithRenderer[T any](name string) ColumnOption[T] {
	return func(c *Column[T]) {
		c.Kind = KindCustom
		c.Renderer = name
	}
}

// WithHeader sets a plain string header.
func WithHeader[T any](header string) ColumnOption[T] {
	return func(c *Column[T]) { c.Header = header }
}

// WithWidth sets the display width hint.
func WithWidth[T any](width int) ColumnOption[T] {
	return func(c *Column[T]) { c.Width = width }
}

// NotFilterable excludes the column from per-column filtering.
func NotFilterable[T any]() ColumnOption[T] {
	return func(c *Column[T]) { c.Filterable = false }
}

// NotHideable pins the column in the visibility toggle.
func NotHideable[T any]() ColumnOption[T] {
	return func(c *Column[T]) { c.Hideable = false }
}

// ExactMatch makes the column filter an equality predicate.
func ExactMatch[T any]() ColumnOption[T] {
	return func(c *Column[T]) { c.Match = MatchExact }
}
