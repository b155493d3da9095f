package ui

import (
	"strconv"
	"time"

	"crmdash/internal/model"
	"crmdash/internal/table"
	"crmdash/internal/util"
)

type editUserMsg struct{ user *model.User }

type editContactMsg struct{ contact *model.Contact }

type editTemplateMsg struct{ template *model.Template }

// renderers shared by every screen's table.
var renderers = map[string]table.RenderFunc{
	"relative": func(v any) string {
		t, ok := v.(time.Time)
		if !ok || t.IsZero() {
			return "Never"
		}
		return util.FormatDateHuman(t)
	},
	"count": func(v any) string {
		n, ok := v.(int)
		if !ok {
			return ""
		}
		return util.FormatCount(n)
	},
}

func idKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
