package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/app"
	"crmdash/internal/model"
	"crmdash/internal/table"
)

// campaignsScreen is the read-only history of campaign sends.
type campaignsScreen struct {
	ctx  *app.Context
	view *tableView[model.CampaignRow]
}

func newCampaignsScreen(ctx *app.Context) (*campaignsScreen, error) {
	s := &campaignsScreen{
		ctx:  ctx,
		view: newTableView[model.CampaignRow]("campaigns", "No campaigns sent yet. Select contacts and press E."),
	}
	v := s.view
	err := v.mount(table.Options[model.CampaignRow]{
		Columns: []table.Column[model.CampaignRow]{
			table.SortableColumn[model.CampaignRow]("created_at", "Sent", table.WithKind[model.CampaignRow](table.KindDate), table.NotFilterable[model.CampaignRow](), table.NotHideable[model.CampaignRow]()),
			table.SortableColumn[model.CampaignRow]("subject", "Subject", table.WithWidth[model.CampaignRow](28)),
			table.SortableColumn[model.CampaignRow]("template_name", "Template", table.WithWidth[model.CampaignRow](20)),
			table.SortableColumn[model.CampaignRow]("kind", "Kind", table.WithKind[model.CampaignRow](table.KindBadge), table.ExactMatch[model.CampaignRow]()),
			table.SortableColumn[model.CampaignRow]("sender_name", "Sent By"),
			table.SortableColumn[model.CampaignRow]("recipients", "Recipients", table.WithRenderer[model.CampaignRow]("count"), table.NotFilterable[model.CampaignRow]()),
			table.SimpleColumn[model.CampaignRow]("outcome", "",
				table.WithAccessor(func(c model.CampaignRow) any {
					return fmt.Sprintf("%d/%d/%d", c.Sent, c.Failed, c.Queued)
				}),
				table.WithHeader[model.CampaignRow]("Sent/Failed/Queued"),
				table.NotFilterable[model.CampaignRow](),
			),
		},
		SearchColumns:     []string{"subject", "template_name", "sender_name"},
		PageSize:          ctx.PageSize,
		RowKey:            func(c model.CampaignRow) string { return idKey(c.ID) },
		Renderers:         renderers,
		ShowActionsColumn: true,
		OnViewDetails: func(c model.CampaignRow) {
			v.emit(loadCampaignDetailCmd(ctx.DB, c.ID))
		},
		ActionItems: []table.ActionItem[model.CampaignRow]{
			{Label: "Copy Batch ID", Icon: "⧉", Handler: func(c model.CampaignRow) {
				v.emit(copyCmd(c.BatchID, "batch id"))
			}},
		},
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *campaignsScreen) reload() tea.Cmd {
	s.view.table.SetFetching(true)
	return loadCampaignsCmd(s.ctx.DB)
}
