// Package table implements a generic, render-agnostic data table engine.
//
// A Table owns the interactive view state of a tabular dataset (sorting,
// column and global filters, pagination, column visibility and row
// selection) and derives the row model from it. Filtering and sorting can
// be delegated to an external data source by installing callbacks, in
// which case the engine renders the data it is given verbatim.
package table

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateColumn is returned when two columns share an ID.
	ErrDuplicateColumn = errors.New("duplicate column id")

	// ErrEmptyColumnID is returned when a column has no ID.
	ErrEmptyColumnID = errors.New("empty column id")
)

// Direction is the sort direction of a single column.
type Direction int

const (
	// None means the column does not take part in sorting.
	None Direction = iota
	// Ascending sorts smallest first.
	Ascending
	// Descending sorts largest first.
	Descending
)

// String returns the string representation of a Direction.
func (d Direction) String() string {
	switch d {
	case None:
		return "none"
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("unknown(%d)", d)
	}
}

// next returns the direction that follows d in the none -> asc -> desc cycle.
func (d Direction) next() Direction {
	switch d {
	case None:
		return Ascending
	case Ascending:
		return Descending
	default:
		return None
	}
}

// SortKey is one entry of the ordered sort list.
type SortKey struct {
	ColumnID  string
	Direction Direction
}

// FilterMode tells whether the engine filters in memory or delegates.
type FilterMode int

const (
	// ClientSide filters the delivered dataset in memory.
	ClientSide FilterMode = iota
	// ServerSide forwards filter changes and renders data as given.
	ServerSide
)

// String returns the string representation of a FilterMode.
func (m FilterMode) String() string {
	switch m {
	case ClientSide:
		return "client"
	case ServerSide:
		return "server"
	default:
		return fmt.Sprintf("unknown(%d)", m)
	}
}

// Kind selects how a cell value is turned into display text.
type Kind int

const (
	// KindText renders the value's string form.
	KindText Kind = iota
	// KindBadge renders a short label the view may style as a pill.
	KindBadge
	// KindDate renders dates as "Jan 02, 2006".
	KindDate
	// KindPhone renders phone numbers as "(858) 369-5555".
	KindPhone
	// KindCustom dispatches to a renderer registered by name.
	KindCustom
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBadge:
		return "badge"
	case KindDate:
		return "date"
	case KindPhone:
		return "phone"
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// MatchMode is the predicate used by a per-column filter.
type MatchMode int

const (
	// MatchContains is a case-insensitive substring match.
	MatchContains MatchMode = iota
	// MatchExact is a case-insensitive equality match.
	MatchExact
)

// HeaderState is the tri-state of the select-all checkbox.
type HeaderState int

const (
	HeaderOff HeaderState = iota
	HeaderAll
	HeaderIndeterminate
)

// Status is what the body of the table should show.
type Status int

const (
	// StatusReady means there are rows to render.
	StatusReady Status = iota
	// StatusLoading means a spinner row spanning all columns.
	StatusLoading
	// StatusEmpty means a single "No results" row.
	StatusEmpty
)

// ActionStyle is a presentation hint for a row action.
type ActionStyle int

const (
	ActionDefault ActionStyle = iota
	ActionDestructive
)

// ActionItem is one entry of a row's contextual menu.
type ActionItem[T any] struct {
	Label   string
	Icon    string
	Style   ActionStyle
	Handler func(row T)
}

// RenderFunc turns a raw cell value into display text. The value is nil
// when the accessor yields nothing.
type RenderFunc func(value any) string

// RowView is a row of the current page together with its identity.
type RowView[T any] struct {
	// Key identifies the row for selection.
	Key string
	// Index is the position of the row in the data slice.
	Index    int
	Row      T
	Selected bool
}

// ViewState is the interactive state of one table instance.
type ViewState struct {
	Sorting          []SortKey
	ColumnFilters    map[string]string
	GlobalFilter     string
	ColumnVisibility map[string]bool
	RowSelection     map[string]bool
}

func newViewState() ViewState {
	return ViewState{
		ColumnFilters:    make(map[string]string),
		ColumnVisibility: make(map[string]bool),
		RowSelection:     make(map[string]bool),
	}
}
