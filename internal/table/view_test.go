package table

import (
	"database/sql"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestColumnTitlePrecedence(t *testing.T) {
	cols := []Column[person]{
		{ID: "first_name", Title: "Given Name", Header: "ignored"},
		{ID: "email_address", Header: "E-mail"},
		{ID: "last_sent_at"},
	}
	tbl, err := New(Options[person]{Columns: cols})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	tests := map[string]string{
		"first_name":    "Given Name",
		"email_address": "E-mail",
		"last_sent_at":  "Last Sent At",
	}
	for id, want := range tests {
		if got := tbl.ColumnTitle(id); got != want {
			t.Errorf("ColumnTitle(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestHeaderLabelAndPlaceholder(t *testing.T) {
	tbl := newPeople(t, Options[person]{ColumnTitles: map[string]string{"company": "Search companies"}})
	score, _ := tbl.Column("score")
	if got := tbl.HeaderLabel(score); got != "Score ↕" {
		t.Fatalf("unsorted label = %q", got)
	}
	tbl.ToggleSort("score")
	if got := tbl.HeaderLabel(score); got != "Score ↑" {
		t.Fatalf("asc label = %q", got)
	}
	tbl.ToggleSort("score")
	if got := tbl.HeaderLabel(score); got != "Score ↓" {
		t.Fatalf("desc label = %q", got)
	}
	email, _ := tbl.Column("email_address")
	if got := tbl.HeaderLabel(email); got != "Email" {
		t.Fatalf("non-sortable label = %q", got)
	}

	if got := tbl.Placeholder("company"); got != "Search companies" {
		t.Fatalf("placeholder = %q", got)
	}
	if got := tbl.Placeholder("first_name"); got != "Filter First Name..." {
		t.Fatalf("default placeholder = %q", got)
	}
}

func TestColumnVisibility(t *testing.T) {
	cols := personColumns()
	cols[0] = SortableColumn[person]("id", "ID", NotHideable[person]())
	tbl := newPeople(t, Options[person]{Columns: cols})

	if !tbl.ToggleColumnVisibility("notes") || tbl.IsVisible("notes") {
		t.Fatal("notes should be hidden")
	}
	if tbl.ToggleColumnVisibility("id") {
		t.Fatal("non-hideable column was hidden")
	}
	if got := len(tbl.VisibleColumns()); got != len(cols)-1 {
		t.Fatalf("visible = %d, want %d", got, len(cols)-1)
	}
	if hidden := tbl.HiddenColumns(); len(hidden) != 1 || hidden[0] != "notes" {
		t.Fatalf("hidden = %v", hidden)
	}
	tbl.ShowAllColumns()
	if !tbl.IsVisible("notes") {
		t.Fatal("ShowAllColumns left notes hidden")
	}
}

func TestAllColumnsHiddenRendersEmpty(t *testing.T) {
	tbl := newPeople(t, Options[person]{})
	for _, c := range tbl.Columns() {
		tbl.ToggleColumnVisibility(c.ID)
	}
	if len(tbl.VisibleColumns()) != 0 {
		t.Fatalf("visible = %d", len(tbl.VisibleColumns()))
	}
	if tbl.Status() != StatusEmpty {
		t.Fatalf("status = %v, want empty", tbl.Status())
	}
}

func TestStatus(t *testing.T) {
	tbl := newPeople(t, Options[person]{})
	if tbl.Status() != StatusReady {
		t.Fatalf("status = %v, want ready", tbl.Status())
	}
	tbl.SetFetching(true)
	if tbl.Status() != StatusLoading {
		t.Fatalf("fetching status = %v, want loading", tbl.Status())
	}
	tbl.SetFetching(false)
	tbl.SetLoading(true)
	if tbl.Status() != StatusLoading {
		t.Fatalf("loading status = %v, want loading", tbl.Status())
	}
	tbl.SetLoading(false)
	tbl.SetData(nil)
	if tbl.Status() != StatusEmpty {
		t.Fatalf("empty status = %v", tbl.Status())
	}
}

func TestCellKinds(t *testing.T) {
	joined := time.Date(2024, 12, 25, 9, 0, 0, 0, time.UTC)
	cols := []Column[person]{
		SimpleColumn[person]("phone", "Phone", WithKind[person](KindPhone)),
		SimpleColumn[person]("joined", "Joined", WithKind[person](KindDate)),
		SimpleColumn[person]("score", "Score", WithRenderer[person]("stars")),
		SimpleColumn[person]("company", "Company", WithKind[person](KindBadge)),
		SimpleColumn[person]("notes", "Notes", WithRenderer[person]("unregistered")),
		SimpleColumn[person]("initials", "Initials", WithAccessor[person](func(p person) any {
			return strings.ToUpper(p.FirstName[:1])
		})),
	}
	tbl, err := New(Options[person]{
		Columns: cols,
		Renderers: map[string]RenderFunc{
			"stars": func(v any) string { return strings.Repeat("*", v.(int)/10) },
		},
	})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	p := person{FirstName: "alice", Phone: "18583695555", Joined: joined, Score: 30, Notes: sql.NullString{String: "vip", Valid: true}}

	tests := map[string]string{
		"phone":    "(858) 369-5555",
		"joined":   "Dec 25, 2024",
		"score":    "***",
		"company":  "",
		"notes":    "vip",
		"initials": "A",
	}
	for id, want := range tests {
		c, _ := tbl.Column(id)
		if got := tbl.Cell(p, c); got != want {
			t.Errorf("Cell(%s) = %q, want %q", id, got, want)
		}
	}

	p.Phone = "12345"
	c, _ := tbl.Column("phone")
	if got := tbl.Cell(p, c); got != "12345" {
		t.Fatalf("invalid phone rendered as %q", got)
	}
}

func TestRowActions(t *testing.T) {
	var viewed, archived int
	tbl := newPeople(t, Options[person]{
		ShowActionsColumn: true,
		OnViewDetails:     func(p person) { viewed = p.ID },
		ActionItems: []ActionItem[person]{
			{Label: "Archive", Style: ActionDestructive, Handler: func(p person) { archived = p.ID }},
		},
	})
	row := people()[2]
	items := tbl.RowActions(row)
	if len(items) != 2 || items[0].Label != ViewDetailsLabel || items[1].Label != "Archive" {
		t.Fatalf("items = %+v", items)
	}
	if !tbl.RunAction(row, 0) || viewed != 3 {
		t.Fatalf("view details not run, viewed = %d", viewed)
	}
	if !tbl.RunAction(row, 1) || archived != 3 {
		t.Fatalf("archive not run, archived = %d", archived)
	}
	if tbl.RunAction(row, 5) {
		t.Fatal("out of range action ran")
	}

	plain := newPeople(t, Options[person]{})
	if plain.RowActions(row) != nil {
		t.Fatal("actions without ShowActionsColumn")
	}
}

func TestBulkActions(t *testing.T) {
	var deleted, emailed []person
	tbl := newPeople(t, Options[person]{
		EnableRowSelection:  true,
		OnDeleteSelected:    func(rows []person) { deleted = rows },
		OnSendEmailSelected: func(rows []person) { emailed = rows },
	})
	if tbl.DeleteSelected() {
		t.Fatal("bulk delete ran with nothing selected")
	}
	tbl.ToggleRow(strconv.Itoa(3))
	tbl.ToggleRow(strconv.Itoa(1))
	if !tbl.SendEmailSelected() || len(emailed) != 2 {
		t.Fatalf("emailed = %v", emailed)
	}
	if !tbl.DeleteSelected() || deleted[0].ID != 2 || deleted[1].ID != 4 {
		t.Fatalf("deleted = %v", ids(deleted))
	}
}

func TestResetDiscardsState(t *testing.T) {
	tbl := newPeople(t, Options[person]{EnableRowSelection: true})
	tbl.ToggleSort("score")
	tbl.SetColumnFilter("first_name", "a")
	tbl.ToggleColumnVisibility("notes")
	tbl.ToggleRow("0")

	st := tbl.State()
	st.ColumnFilters["first_name"] = "mutated"
	if tbl.ColumnFilter("first_name") != "a" {
		t.Fatal("State returned a shared map")
	}

	tbl.Reset()
	st = tbl.State()
	if len(st.Sorting) != 0 || len(st.ColumnFilters) != 0 || len(st.ColumnVisibility) != 0 || len(st.RowSelection) != 0 {
		t.Fatalf("state after reset = %+v", st)
	}
	if tbl.RowCount() != 4 {
		t.Fatalf("rows after reset = %d", tbl.RowCount())
	}
}
