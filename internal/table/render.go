package table

import (
	"time"

	"crmdash/internal/util"
)

// Cell renders the value of column c for row as display text. Absent
// values render as "".
func (t *Table[T]) Cell(row T, c Column[T]) string {
	i, ok := t.byID[c.ID]
	if !ok {
		return ""
	}
	raw := t.accessors[i](row)
	switch c.Kind {
	case KindCustom:
		if fn, ok := t.opts.Renderers[c.Renderer]; ok && fn != nil {
			v, _ := present(raw)
			return fn(v)
		}
		s, _ := stringValue(raw)
		return s
	case KindDate:
		return renderDate(raw)
	case KindPhone:
		s, ok := stringValue(raw)
		if !ok {
			return ""
		}
		if formatted := util.AutoFormat(s); util.IsValidPhoneNumber(s) {
			return formatted
		}
		return s
	default:
		s, _ := stringValue(raw)
		return s
	}
}

func renderDate(raw any) string {
	v, ok := present(raw)
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return util.FormatTime(x)
	case string:
		if x == "" {
			return ""
		}
		return util.FormatDate(x)
	default:
		s, _ := stringValue(v)
		return s
	}
}
