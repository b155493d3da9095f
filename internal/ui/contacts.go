package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/app"
	"crmdash/internal/debounce"
	"crmdash/internal/model"
	"crmdash/internal/table"
)

// contactsScreen lists campaign recipients. Filtering, search and sorting
// run in SQL: the table forwards every change here and renders what the
// latest query returned.
type contactsScreen struct {
	ctx      *app.Context
	view     *tableView[model.Contact]
	debounce debounce.Timer
	// seq numbers reload requests; responses for older requests are dropped.
	seq int
}

func newContactsScreen(ctx *app.Context, delay time.Duration) (*contactsScreen, error) {
	s := &contactsScreen{
		ctx:      ctx,
		view:     newTableView[model.Contact]("contacts", "No contacts yet. Press a to add one."),
		debounce: debounce.New(delay),
	}
	v := s.view
	err := v.mount(table.Options[model.Contact]{
		Columns: []table.Column[model.Contact]{
			table.SortableColumn[model.Contact]("full_name", "Name",
				table.WithAccessor(func(c model.Contact) any { return c.FullName() }),
				table.WithWidth[model.Contact](22),
				table.NotHideable[model.Contact](),
			),
			table.SortableColumn[model.Contact]("email", "Email", table.WithWidth[model.Contact](28)),
			table.SimpleColumn[model.Contact]("phone", "Phone", table.WithKind[model.Contact](table.KindPhone), table.WithWidth[model.Contact](16)),
			table.SortableColumn[model.Contact]("company", "Company", table.WithWidth[model.Contact](18)),
			table.SimpleColumn[model.Contact]("tags", "Tags", table.WithKind[model.Contact](table.KindBadge)),
			table.SortableColumn[model.Contact]("subscribed", "Subscribed",
				table.WithAccessor(func(c model.Contact) any { return yesNo(c.Subscribed) }),
				table.WithKind[model.Contact](table.KindBadge),
			),
			table.SortableColumn[model.Contact]("last_emailed_at", "Last Emailed", table.WithRenderer[model.Contact]("relative"), table.NotFilterable[model.Contact]()),
			table.SortableColumn[model.Contact]("created_at", "Added", table.WithKind[model.Contact](table.KindDate), table.NotFilterable[model.Contact]()),
		},
		ColumnTitles:       map[string]string{"subscribed": "yes or no", "phone": "Digits..."},
		PageSize:           ctx.PageSize,
		RowKey:             func(c model.Contact) string { return idKey(c.ID) },
		Renderers:          renderers,
		EnableRowSelection: true,
		ShowActionsColumn:  true,

		OnFilterChange: func(string, string) {
			v.emit(s.debounce.Reset(nil))
		},
		OnClearFilter: func(string) {
			v.emit(s.reload())
		},
		OnClearAllFilters: func() {
			v.emit(s.reload())
		},
		OnGlobalSearchChange: func(value string) {
			if value == "" {
				v.emit(s.reload())
				return
			}
			v.emit(s.debounce.Reset(nil))
		},
		OnSortChange: func([]table.SortKey) {
			v.emit(s.reload())
		},

		OnViewDetails: func(c model.Contact) {
			v.emit(msgCmd(showDetailMsg{detail: contactDetail(c)}))
		},
		ActionItems: []table.ActionItem[model.Contact]{
			{Label: "Edit", Icon: "✎", Handler: func(c model.Contact) {
				v.emit(msgCmd(editContactMsg{contact: &c}))
			}},
			{Label: "Send Email", Icon: "✉", Handler: func(c model.Contact) {
				v.emit(s.composeCmd([]model.Contact{c}))
			}},
			{Label: "Copy Email", Icon: "⧉", Handler: func(c model.Contact) {
				v.emit(copyCmd(c.Email, "email"))
			}},
			{Label: "Delete", Icon: "✗", Style: table.ActionDestructive, Handler: func(c model.Contact) {
				v.emit(s.deleteCmd([]model.Contact{c}))
			}},
		},
		OnDeleteSelected: func(rows []model.Contact) {
			v.emit(s.deleteCmd(rows))
		},
		OnSendEmailSelected: func(rows []model.Contact) {
			v.emit(s.composeCmd(rows))
		},
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// query translates the table's view state into a storage query.
func (s *contactsScreen) query() model.ContactQuery {
	st := s.view.table.State()
	q := model.ContactQuery{
		Filters: st.ColumnFilters,
		Search:  st.GlobalFilter,
	}
	for _, k := range st.Sorting {
		q.Sort = append(q.Sort, model.SortField{Column: k.ColumnID, Desc: k.Direction == table.Descending})
	}
	return q
}

// reload cancels any pending debounce and queries immediately.
func (s *contactsScreen) reload() tea.Cmd {
	s.debounce.Cancel()
	s.seq++
	s.view.table.SetFetching(true)
	return loadContactsCmd(s.ctx.DB, s.query(), s.seq)
}

// handleDebounce runs the query when msg is the latest debounce fire.
func (s *contactsScreen) handleDebounce(msg debounce.Msg) (bool, tea.Cmd) {
	if _, ok := s.debounce.Fire(msg); !ok {
		return false, nil
	}
	return true, s.reload()
}

// handleLoaded applies a query result unless a newer query is in flight.
func (s *contactsScreen) handleLoaded(msg model.ContactsLoadedMsg) bool {
	if msg.Seq != s.seq {
		return false
	}
	s.view.SetData(msg.Contacts)
	return true
}

func (s *contactsScreen) composeCmd(rows []model.Contact) tea.Cmd {
	if err := canEdit(s.ctx.CurrentUser); err != nil {
		return msgCmd(model.ErrorMsg{Err: err})
	}
	return msgCmd(model.ComposeCampaignMsg{Recipients: rows})
}

func (s *contactsScreen) deleteCmd(rows []model.Contact) tea.Cmd {
	if err := canEdit(s.ctx.CurrentUser); err != nil {
		return msgCmd(model.ErrorMsg{Err: err})
	}
	s.view.table.ClearSelection()
	return deleteContactsCmd(s.ctx.DB, rows)
}
