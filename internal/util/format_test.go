package util

import (
	"testing"
	"time"
)

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"first_name": "First Name",
		"last-sent":  "Last Sent",
		"email":      "Email",
		"ID":         "Id",
		"__":         "",
	}
	for in, want := range tests {
		if got := Humanize(in); got != want {
			t.Errorf("Humanize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("hello", 10); got != "hello" {
		t.Fatalf("short string changed: %q", got)
	}
	if got := TruncateString("hello world", 8); got != "hello..." {
		t.Fatalf("TruncateString = %q, want %q", got, "hello...")
	}
	if got := TruncateString("hello", 0); got != "" {
		t.Fatalf("zero width = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2024-12-25"); got != "Dec 25, 2024" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := FormatDate(""); got != "Unknown" {
		t.Fatalf("FormatDate(empty) = %q", got)
	}
	if got := FormatDate("not a date"); got != "not a date" {
		t.Fatalf("FormatDate(invalid) = %q", got)
	}
	if got := FormatTime(time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)); got != "Jan 02, 2025" {
		t.Fatalf("FormatTime = %q", got)
	}
}

func TestFormatDateHuman(t *testing.T) {
	now := time.Now()
	if got := FormatDateHuman(now); got != "Today" {
		t.Fatalf("FormatDateHuman(now) = %q", got)
	}
	if got := FormatDateHuman(now.AddDate(0, 0, -1)); got != "Yesterday" {
		t.Fatalf("FormatDateHuman(yesterday) = %q", got)
	}
	if got := FormatDateHuman(time.Time{}); got != "Unknown" {
		t.Fatalf("FormatDateHuman(zero) = %q", got)
	}
}

func TestPlural(t *testing.T) {
	if got := Plural(1, "contact"); got != "1 contact" {
		t.Fatalf("Plural(1) = %q", got)
	}
	if got := Plural(1200, "contact"); got != "1,200 contacts" {
		t.Fatalf("Plural(1200) = %q", got)
	}
}
