package util

import "strings"

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nationalDigits strips a leading country code 1 and caps at 10 digits. A
// complete 10 digit number is kept as is; a shorter one starting with 1 is
// taken to be a country code being typed.
func nationalDigits(s string) string {
	d := Digits(s)
	if len(d) != 10 && strings.HasPrefix(d, "1") {
		d = d[1:]
	}
	if len(d) > 10 {
		d = d[:10]
	}
	return d
}

// AutoFormat formats a (possibly partial) North American number as the user
// types: "858" -> "(858", "858369" -> "(858) 369", "8583695555" ->
// "(858) 369-5555". A leading country code 1 is dropped.
func AutoFormat(s string) string {
	d := nationalDigits(s)
	switch {
	case d == "":
		return ""
	case len(d) <= 3:
		return "(" + d
	case len(d) <= 6:
		return "(" + d[:3] + ") " + d[3:]
	default:
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
	}
}

// IsValidPhoneNumber reports whether s reduces to exactly 10 digits, or 11
// digits with a leading 1.
func IsValidPhoneNumber(s string) bool {
	d := Digits(s)
	switch len(d) {
	case 10:
		return true
	case 11:
		return d[0] == '1'
	default:
		return false
	}
}

// NormalizePhone returns the 10 national digits of a valid number, or ""
// when s is not a valid number.
func NormalizePhone(s string) string {
	if !IsValidPhoneNumber(s) {
		return ""
	}
	d := Digits(s)
	return d[len(d)-10:]
}
