package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const isoDate = "2006-01-02"

// FormatDate formats a date string (YYYY-MM-DD or RFC3339) for display.
func FormatDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return "Unknown"
	}
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Jan 02, 2006")
}

// FormatTime formats a timestamp the way FormatDate formats date strings.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("Jan 02, 2006")
}

// FormatDateHuman formats a timestamp relative to now.
// "Today", "Yesterday", "3 days ago", "Jan 15", "Jan 15 '24"
func FormatDateHuman(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	days := int(today.Sub(day).Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days > 1 && days < 7:
		return humanize.Time(day)
	case t.Year() == now.Year():
		return t.Format("Jan 02")
	default:
		return t.Format("Jan 02 '06")
	}
}

// ParseDate accepts YYYY-MM-DD or RFC3339.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(isoDate, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// FormatCount formats n with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// Plural returns "1 contact" / "3 contacts".
func Plural(n int, singular string) string {
	if n == 1 {
		return "1 " + singular
	}
	return FormatCount(n) + " " + singular + "s"
}

// TruncateString truncates s to maxWidth display cells and adds "..." if needed.
func TruncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

var titleCaser = cases.Title(language.English)

// Humanize turns an identifier such as "first_name" or "last-sent" into
// "First Name" / "Last Sent".
func Humanize(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	if len(words) == 0 {
		return ""
	}
	return titleCaser.String(strings.ToLower(strings.Join(words, " ")))
}
