package table

import (
	"database/sql"
	"errors"
	"slices"
	"strconv"
	"testing"
	"time"
)

type person struct {
	ID        int
	FirstName string `json:"first_name"`
	Email     string `db:"email_address"`
	Company   *string
	Phone     string
	Score     int
	Notes     sql.NullString
	Joined    time.Time
}

func strPtr(s string) *string { return &s }

func people() []person {
	return []person{
		{ID: 1, FirstName: "Alice", Email: "alice@example.org", Company: strPtr("Acme"), Phone: "8583695555", Score: 30},
		{ID: 2, FirstName: "Bob", Email: "bob@corp.io", Company: nil, Phone: "6195550000", Score: 10},
		{ID: 3, FirstName: "Carol", Email: "carol@example.org", Company: strPtr("Initech"), Score: 20, Notes: sql.NullString{String: "vip", Valid: true}},
		{ID: 4, FirstName: "dave", Email: "dave@corp.io", Company: strPtr("acme labs"), Score: 20},
	}
}

func personColumns() []Column[person] {
	return []Column[person]{
		SortableColumn[person]("id", "ID"),
		SortableColumn[person]("first_name", "First Name"),
		SimpleColumn[person]("email_address", "Email"),
		SortableColumn[person]("company", "Company"),
		SimpleColumn[person]("phone", "Phone", WithKind[person](KindPhone)),
		SortableColumn[person]("score", "Score"),
		SimpleColumn[person]("notes", "Notes"),
	}
}

func newPeople(t *testing.T, opts Options[person]) *Table[person] {
	t.Helper()
	if opts.Columns == nil {
		opts.Columns = personColumns()
	}
	tbl, err := New(opts)
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	tbl.SetData(people())
	return tbl
}

func ids(rows []person) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestNewRejectsBadColumns(t *testing.T) {
	_, err := New(Options[person]{Columns: []Column[person]{
		SimpleColumn[person]("email_address", "Email"),
		SimpleColumn[person]("email_address", "Email again"),
	}})
	if !errors.Is(err, ErrDuplicateColumn) {
		t.Fatalf("expected ErrDuplicateColumn, got %v", err)
	}

	_, err = New(Options[person]{Columns: []Column[person]{{Title: "No ID"}}})
	if !errors.Is(err, ErrEmptyColumnID) {
		t.Fatalf("expected ErrEmptyColumnID, got %v", err)
	}
}

func TestAccessorResolution(t *testing.T) {
	tbl := newPeople(t, Options[person]{})
	p := people()[0]
	if got := tbl.Value(p, "first_name"); got != "Alice" {
		t.Fatalf("json tag accessor = %v", got)
	}
	if got := tbl.Value(p, "email_address"); got != "alice@example.org" {
		t.Fatalf("db tag accessor = %v", got)
	}
	if got := tbl.Value(p, "score"); got != 30 {
		t.Fatalf("name accessor = %v", got)
	}
	if got := tbl.Value(p, "missing"); got != nil {
		t.Fatalf("unknown column = %v", got)
	}

	mt, err := New(Options[map[string]any]{Columns: []Column[map[string]any]{
		SimpleColumn[map[string]any]("name", "Name"),
	}})
	if err != nil {
		t.Fatalf("new map table: %v", err)
	}
	if got := mt.Value(map[string]any{"name": "x"}, "name"); got != "x" {
		t.Fatalf("map accessor = %v", got)
	}
}

func TestGlobalFilterMatchesAnySearchColumn(t *testing.T) {
	tbl := newPeople(t, Options[person]{SearchColumns: []string{"first_name", "email_address"}})

	tbl.SetGlobalFilter("EXAMPLE")
	if got := ids(tbl.Rows()); !slices.Equal(got, []int{1, 3}) {
		t.Fatalf("rows = %v, want [1 3]", got)
	}

	tbl.SetGlobalFilter("DAVE")
	if got := ids(tbl.Rows()); !slices.Equal(got, []int{4}) {
		t.Fatalf("rows = %v, want [4]", got)
	}

	// company is not a search column
	tbl.SetGlobalFilter("initech")
	if got := tbl.RowCount(); got != 0 {
		t.Fatalf("rows = %d, want 0", got)
	}
	if tbl.Status() != StatusEmpty {
		t.Fatalf("status = %v, want empty", tbl.Status())
	}

	tbl.SetGlobalFilter("")
	if got := tbl.RowCount(); got != 4 {
		t.Fatalf("rows = %d, want 4", got)
	}
}

func TestGlobalFilterDefaultsToEveryColumn(t *testing.T) {
	tbl := newPeople(t, Options[person]{})
	tbl.SetGlobalFilter("initech")
	if got := ids(tbl.Rows()); !slices.Equal(got, []int{3}) {
		t.Fatalf("rows = %v, want [3]", got)
	}
}

func TestColumnFiltersCompose(t *testing.T) {
	tbl := newPeople(t, Options[person]{})

	tbl.SetColumnFilter("company", "acme")
	if got := ids(tbl.Rows()); !slices.Equal(got, []int{1, 4}) {
		t.Fatalf("company rows = %v, want [1 4]", got)
	}

	tbl.SetColumnFilter("email_address", "corp")
	if got := ids(tbl.Rows()); !slices.Equal(got, []int{4}) {
		t.Fatalf("company+email rows = %v, want [4]", got)
	}

	tbl.SetGlobalFilter("alice")
	if got := tbl.RowCount(); got != 0 {
		t.Fatalf("global AND column rows = %d, want 0", got)
	}

	if !tbl.ClearAllFilters() {
		t.Fatal("expected ClearAllFilters to report a change")
	}
	if got := tbl.RowCount(); got != 4 {
		t.Fatalf("rows after clear = %d, want 4", got)
	}
	if tbl.HasFilters() {
		t.Fatal("filters remain after clear")
	}
}

func TestExactMatchAndAbsentValues(t *testing.T) {
	cols := personColumns()
	cols[3] = SortableColumn[person]("company", "Company", ExactMatch[person]())
	tbl := newPeople(t, Options[person]{Columns: cols})

	tbl.SetColumnFilter("company", "ACME")
	if got := ids(tbl.Rows()); !slices.Equal(got, []int{1}) {
		t.Fatalf("exact rows = %v, want [1]", got)
	}

	// nil pointers and invalid sql.NullString never match
	tbl.ClearAllFilters()
	tbl.SetColumnFilter("notes", "v")
	if got := ids(tbl.Rows()); !slices.Equal(got, []int{3}) {
		t.Fatalf("notes rows = %v, want [3]", got)
	}
	tbl.SetColumnFilter("company", "a")
	if got := tbl.RowCount(); got != 0 {
		t.Fatalf("rows = %d, want 0", got)
	}
}

func TestBlankFilterClears(t *testing.T) {
	var cleared []string
	tbl := newPeople(t, Options[person]{OnClearFilter: func(id string) { cleared = append(cleared, id) }})
	tbl.SetColumnFilter("first_name", "bo")
	tbl.SetColumnFilter("first_name", "   ")
	if tbl.ColumnFilter("first_name") != "" {
		t.Fatal("blank value should clear the filter")
	}
	if !slices.Equal(cleared, []string{"first_name"}) {
		t.Fatalf("cleared = %v", cleared)
	}
	if tbl.SetColumnFilter("nope", "x") {
		t.Fatal("unknown column accepted a filter")
	}
}

func TestFilterHandlerSwitchesMode(t *testing.T) {
	tbl := newPeople(t, Options[person]{})
	tbl.SetColumnFilter("first_name", "alice")
	if tbl.Mode() != ClientSide || tbl.RowCount() != 1 {
		t.Fatalf("client mode rows = %d", tbl.RowCount())
	}

	var calls []string
	tbl.SetFilterHandler(func(id, value string) { calls = append(calls, id+"="+value) })
	if tbl.Mode() != ServerSide {
		t.Fatalf("mode = %v, want server", tbl.Mode())
	}
	if got := ids(tbl.Rows()); !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Fatalf("server mode rows = %v, want data verbatim", got)
	}

	tbl.SetColumnFilter("email_address", "corp")
	if !slices.Equal(calls, []string{"email_address=corp"}) {
		t.Fatalf("calls = %v", calls)
	}
	if tbl.RowCount() != 4 {
		t.Fatalf("server mode filtered locally: %d rows", tbl.RowCount())
	}

	tbl.SetFilterHandler(nil)
	if got := ids(tbl.Rows()); len(got) != 0 {
		t.Fatalf("client mode rows = %v, want none", got)
	}
}

func TestServerCallbacks(t *testing.T) {
	var events []string
	tbl := newPeople(t, Options[person]{
		OnFilterChange:       func(id, v string) { events = append(events, "filter:"+id+"="+v) },
		OnClearFilter:        func(id string) { events = append(events, "clear:"+id) },
		OnClearAllFilters:    func() { events = append(events, "clear-all") },
		OnGlobalSearchChange: func(v string) { events = append(events, "search:"+v) },
	})

	tbl.SetColumnFilter("first_name", "a")
	tbl.ClearColumnFilter("first_name")
	tbl.SetColumnFilter("company", "acme")
	tbl.SetGlobalFilter("x")
	tbl.ClearAllFilters()

	want := []string{
		"filter:first_name=a",
		"clear:first_name",
		"filter:company=acme",
		"search:x",
		"clear-all",
		"search:",
	}
	if !slices.Equal(events, want) {
		t.Fatalf("events = %v\nwant %v", events, want)
	}
}

func TestGlobalSearchHandlerDisablesLocalSearch(t *testing.T) {
	var got string
	tbl := newPeople(t, Options[person]{})
	tbl.SetGlobalSearchHandler(func(v string) { got = v })
	tbl.SetGlobalFilter("alice")
	if got != "alice" {
		t.Fatalf("handler got %q", got)
	}
	if tbl.RowCount() != 4 {
		t.Fatalf("rows = %d, want 4", tbl.RowCount())
	}
}

func TestToggleSortCycle(t *testing.T) {
	tbl := newPeople(t, Options[person]{})

	tbl.ToggleSort("score")
	if tbl.SortDirection("score") != Ascending {
		t.Fatalf("direction = %v, want asc", tbl.SortDirection("score"))
	}
	// ties (3 and 4 both score 20) keep data order
	if got := ids(tbl.Rows()); !slices.Equal(got, []int{2, 3, 4, 1}) {
		t.Fatalf("asc rows = %v", got)
	}

	tbl.ToggleSort("score")
	if got := ids(tbl.Rows()); !slices.Equal(got, []int{1, 3, 4, 2}) {
		t.Fatalf("desc rows = %v", got)
	}

	tbl.ToggleSort("score")
	if tbl.SortDirection("score") != None || len(tbl.Sorting()) != 0 {
		t.Fatalf("sorting = %v, want none", tbl.Sorting())
	}
	if got := ids(tbl.Rows()); !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Fatalf("unsorted rows = %v", got)
	}

	if tbl.ToggleSort("email_address") {
		t.Fatal("non-sortable column accepted a sort")
	}
}

func TestToggleSortReplacesOtherKeys(t *testing.T) {
	tbl := newPeople(t, Options[person]{})
	tbl.ToggleSort("score")
	tbl.ToggleSort("first_name")
	want := []SortKey{{ColumnID: "first_name", Direction: Ascending}}
	if got := tbl.Sorting(); !slices.Equal(got, want) {
		t.Fatalf("sorting = %v", got)
	}
	// strings compare case-insensitively
	if got := ids(tbl.Rows()); !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Fatalf("rows = %v", got)
	}
}

func TestToggleMultiSortMostRecentFirst(t *testing.T) {
	tbl := newPeople(t, Options[person]{})
	tbl.ToggleMultiSort("first_name")
	tbl.ToggleMultiSort("first_name") // desc
	tbl.ToggleMultiSort("score")

	want := []SortKey{
		{ColumnID: "score", Direction: Ascending},
		{ColumnID: "first_name", Direction: Descending},
	}
	if got := tbl.Sorting(); !slices.Equal(got, want) {
		t.Fatalf("sorting = %v, want %v", got, want)
	}
	// score 20 tie broken by first_name desc: dave before Carol
	if got := ids(tbl.Rows()); !slices.Equal(got, []int{2, 4, 3, 1}) {
		t.Fatalf("rows = %v", got)
	}
}

func TestSortAbsentValuesLast(t *testing.T) {
	tbl := newPeople(t, Options[person]{})
	tbl.ToggleSort("company")
	if got := ids(tbl.Rows()); got[len(got)-1] != 2 {
		t.Fatalf("asc rows = %v, want nil company last", got)
	}
	tbl.ToggleSort("company")
	if got := ids(tbl.Rows()); got[len(got)-1] != 2 {
		t.Fatalf("desc rows = %v, want nil company last", got)
	}
}

func TestDelegatedSort(t *testing.T) {
	var got []SortKey
	tbl := newPeople(t, Options[person]{OnSortChange: func(keys []SortKey) { got = keys }})
	tbl.ToggleSort("score")
	if len(got) != 1 || got[0].ColumnID != "score" {
		t.Fatalf("callback keys = %v", got)
	}
	if rows := ids(tbl.Rows()); !slices.Equal(rows, []int{1, 2, 3, 4}) {
		t.Fatalf("delegated sort reordered rows: %v", rows)
	}
}

func manyPeople(n int) []person {
	out := make([]person, n)
	for i := range out {
		out[i] = person{ID: i, FirstName: "p" + strconv.Itoa(i), Score: i}
	}
	return out
}

func TestPagination(t *testing.T) {
	tbl, err := New(Options[person]{Columns: personColumns(), PageSize: 10})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	tbl.SetData(manyPeople(25))

	if tbl.PageCount() != 3 {
		t.Fatalf("page count = %d, want 3", tbl.PageCount())
	}
	if tbl.CanPrevPage() || !tbl.CanNextPage() {
		t.Fatal("first page controls wrong")
	}
	tbl.NextPage()
	tbl.NextPage()
	if tbl.NextPage() {
		t.Fatal("moved past the last page")
	}
	page := tbl.PageRows()
	if len(page) != 5 || page[0].Row.ID != 20 {
		t.Fatalf("last page = %d rows starting at %d", len(page), page[0].Row.ID)
	}

	// shrinking the row set clamps the page
	tbl.SetColumnFilter("first_name", "p1")
	if tbl.PageIndex() != 0 {
		t.Fatalf("page index = %d, want 0", tbl.PageIndex())
	}
	tbl.ClearAllFilters()
	tbl.SetPageIndex(2)
	tbl.SetData(manyPeople(12))
	if tbl.PageIndex() != 1 {
		t.Fatalf("page index after shrink = %d, want 1", tbl.PageIndex())
	}

	// pagination follows sort order
	tbl.ToggleSort("score")
	tbl.ToggleSort("score")
	tbl.SetPageIndex(0)
	if first := tbl.PageRows()[0].Row.ID; first != 11 {
		t.Fatalf("first desc row = %d, want 11", first)
	}
}

func TestDefaultPageSize(t *testing.T) {
	tbl, err := New(Options[person]{Columns: personColumns()})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	tbl.SetData(manyPeople(11))
	if tbl.PageSize() != DefaultPageSize || tbl.PageCount() != 2 {
		t.Fatalf("page size = %d, count = %d", tbl.PageSize(), tbl.PageCount())
	}
	tbl.SetData(nil)
	if tbl.PageCount() != 1 || tbl.CanNextPage() {
		t.Fatalf("empty table page count = %d", tbl.PageCount())
	}
}

func TestSelectAllPageAndIndeterminate(t *testing.T) {
	tbl, err := New(Options[person]{Columns: personColumns(), PageSize: 3, EnableRowSelection: true})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	tbl.SetData(manyPeople(7))

	if tbl.HeaderState() != HeaderOff {
		t.Fatalf("header = %v, want off", tbl.HeaderState())
	}
	tbl.ToggleAllPage()
	if tbl.HeaderState() != HeaderAll {
		t.Fatalf("header = %v, want all", tbl.HeaderState())
	}
	if got := ids(tbl.SelectedRows()); !slices.Equal(got, []int{0, 1, 2}) {
		t.Fatalf("selected = %v, want exactly the page", got)
	}

	tbl.ToggleRow(tbl.PageRows()[1].Key)
	if tbl.HeaderState() != HeaderIndeterminate {
		t.Fatalf("header = %v, want indeterminate", tbl.HeaderState())
	}

	// selection survives pagination
	tbl.NextPage()
	if tbl.HeaderState() != HeaderOff {
		t.Fatalf("page 2 header = %v, want off", tbl.HeaderState())
	}
	tbl.PrevPage()
	if got := ids(tbl.SelectedRows()); !slices.Equal(got, []int{0, 2}) {
		t.Fatalf("selected = %v", got)
	}

	// toggling a fully selected page clears it
	tbl.ToggleAllPage()
	tbl.ToggleAllPage()
	if tbl.SelectedCount() != 0 {
		t.Fatalf("selected = %d after toggle off", tbl.SelectedCount())
	}
}

func TestSelectionDisabled(t *testing.T) {
	tbl := newPeople(t, Options[person]{})
	if tbl.ToggleRow("0") || tbl.ToggleAllPage() {
		t.Fatal("selection allowed without EnableRowSelection")
	}
}

func TestRowKeySelection(t *testing.T) {
	tbl := newPeople(t, Options[person]{
		EnableRowSelection: true,
		RowKey:             func(p person) string { return "p" + strconv.Itoa(p.ID) },
	})
	tbl.ToggleRow("p3")
	data := people()
	slices.Reverse(data)
	tbl.SetData(data)
	if got := ids(tbl.SelectedRows()); !slices.Equal(got, []int{3}) {
		t.Fatalf("selected = %v, want [3]", got)
	}
}
