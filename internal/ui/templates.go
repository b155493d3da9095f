package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/app"
	"crmdash/internal/model"
	"crmdash/internal/social"
	"crmdash/internal/table"
)

// templatesScreen lists newsletter, e-card and social templates.
type templatesScreen struct {
	ctx  *app.Context
	view *tableView[model.Template]
}

func newTemplatesScreen(ctx *app.Context) (*templatesScreen, error) {
	s := &templatesScreen{
		ctx:  ctx,
		view: newTableView[model.Template]("templates", "No templates yet. Press a to write one."),
	}
	v := s.view
	err := v.mount(table.Options[model.Template]{
		Columns: []table.Column[model.Template]{
			table.SortableColumn[model.Template]("name", "Name", table.WithWidth[model.Template](24), table.NotHideable[model.Template]()),
			table.SortableColumn[model.Template]("kind", "Kind", table.WithKind[model.Template](table.KindBadge), table.ExactMatch[model.Template]()),
			table.SortableColumn[model.Template]("subject", "Subject", table.WithWidth[model.Template](32)),
			table.SortableColumn[model.Template]("updated_at", "Updated", table.WithRenderer[model.Template]("relative"), table.NotFilterable[model.Template]()),
		},
		SearchColumns:     []string{"name", "subject"},
		ColumnTitles:      map[string]string{"kind": "newsletter, ecard or social"},
		PageSize:          ctx.PageSize,
		RowKey:            func(t model.Template) string { return idKey(t.ID) },
		Renderers:         renderers,
		ShowActionsColumn: true,
		OnViewDetails: func(t model.Template) {
			v.emit(msgCmd(showDetailMsg{detail: templateDetail(t, ctx.Mailer.Renderer())}))
		},
		ActionItems: []table.ActionItem[model.Template]{
			{Label: "Edit", Icon: "✎", Handler: func(t model.Template) {
				v.emit(msgCmd(editTemplateMsg{template: &t}))
			}},
			{Label: "Generate Post", Icon: "✦", Handler: func(t model.Template) {
				v.emit(s.generateCmd(t))
			}},
			{Label: "Delete", Icon: "✗", Style: table.ActionDestructive, Handler: func(t model.Template) {
				v.emit(s.deleteCmd(t))
			}},
		},
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *templatesScreen) generateCmd(t model.Template) tea.Cmd {
	switch {
	case t.Kind != model.KindSocial:
		return msgCmd(model.ErrorMsg{Err: social.ErrNotSocial})
	case !s.ctx.Social.Enabled():
		return msgCmd(model.ErrorMsg{Err: social.ErrDisabled})
	}
	return tea.Batch(
		msgCmd(model.StatusMsg{Text: "Generating post..."}),
		generatePostCmd(s.ctx.Social, t, s.ctx.CurrentUser.Name),
	)
}

func (s *templatesScreen) deleteCmd(t model.Template) tea.Cmd {
	if err := canEdit(s.ctx.CurrentUser); err != nil {
		return msgCmd(model.ErrorMsg{Err: err})
	}
	return deleteTemplateCmd(s.ctx.DB, t)
}

func (s *templatesScreen) reload() tea.Cmd {
	s.view.table.SetFetching(true)
	return loadTemplatesCmd(s.ctx.DB)
}

// find returns the loaded template with id.
func (s *templatesScreen) find(id int64) (model.Template, bool) {
	for _, t := range s.view.table.Data() {
		if t.ID == id {
			return t, true
		}
	}
	return model.Template{}, false
}
