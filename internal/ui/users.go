package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/app"
	"crmdash/internal/model"
	"crmdash/internal/table"
)

// usersScreen lists dashboard operators. Filtering is client-side.
type usersScreen struct {
	ctx  *app.Context
	view *tableView[model.User]
}

func newUsersScreen(ctx *app.Context) (*usersScreen, error) {
	s := &usersScreen{
		ctx:  ctx,
		view: newTableView[model.User]("users", "No users yet. Press a to add one."),
	}
	v := s.view
	err := v.mount(table.Options[model.User]{
		Columns: []table.Column[model.User]{
			table.SortableColumn[model.User]("name", "Name", table.WithWidth[model.User](20), table.NotHideable[model.User]()),
			table.SortableColumn[model.User]("email", "Email", table.WithWidth[model.User](28)),
			table.SortableColumn[model.User]("role", "Role", table.WithKind[model.User](table.KindBadge), table.ExactMatch[model.User]()),
			table.SortableColumn[model.User]("active", "Status",
				table.WithAccessor(func(u model.User) any { return activeLabel(u.Active) }),
				table.WithKind[model.User](table.KindBadge),
				table.ExactMatch[model.User](),
			),
			table.SortableColumn[model.User]("last_login_at", "Last Login", table.WithRenderer[model.User]("relative"), table.NotFilterable[model.User]()),
			table.SortableColumn[model.User]("created_at", "Created", table.WithKind[model.User](table.KindDate), table.NotFilterable[model.User]()),
		},
		SearchColumns:      []string{"name", "email"},
		ColumnTitles:       map[string]string{"role": "admin, editor or viewer"},
		PageSize:           ctx.PageSize,
		RowKey:             func(u model.User) string { return idKey(u.ID) },
		Renderers:          renderers,
		EnableRowSelection: true,
		ShowActionsColumn:  true,
		OnViewDetails: func(u model.User) {
			v.emit(msgCmd(showDetailMsg{detail: userDetail(u)}))
		},
		ActionItems: []table.ActionItem[model.User]{
			{Label: "Edit", Icon: "✎", Handler: func(u model.User) {
				v.emit(msgCmd(editUserMsg{user: &u}))
			}},
			{Label: "Copy Email", Icon: "⧉", Handler: func(u model.User) {
				v.emit(copyCmd(u.Email, "email"))
			}},
			{Label: "Delete", Icon: "✗", Style: table.ActionDestructive, Handler: func(u model.User) {
				v.emit(s.deleteCmd([]model.User{u}))
			}},
		},
		OnDeleteSelected: func(rows []model.User) {
			v.emit(s.deleteCmd(rows))
		},
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *usersScreen) deleteCmd(rows []model.User) tea.Cmd {
	if err := canManageUsers(s.ctx.CurrentUser); err != nil {
		return msgCmd(model.ErrorMsg{Err: err})
	}
	for _, u := range rows {
		if u.ID == s.ctx.CurrentUser.ID {
			return msgCmd(model.ErrorMsg{Err: errDeleteSelf})
		}
	}
	s.view.table.ClearSelection()
	return deleteUsersCmd(s.ctx.DB, rows)
}

func (s *usersScreen) reload() tea.Cmd {
	s.view.table.SetFetching(true)
	return loadUsersCmd(s.ctx.DB)
}
