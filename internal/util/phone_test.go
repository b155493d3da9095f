package util

import "testing"

func TestAutoFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"8583695555", "(858) 369-5555"},
		{"18583695555", "(858) 369-5555"},
		{"+1 (858) 369-5555", "(858) 369-5555"},
		{"", ""},
		{"1", ""},
		{"8", "(8"},
		{"858", "(858"},
		{"8583", "(858) 3"},
		{"858369", "(858) 369"},
		{"8583695", "(858) 369-5"},
		{"858369555512", "(858) 369-5555"},
		{"1234567890", "(123) 456-7890"},
		{"(123) 456-7890", "(123) 456-7890"},
		{"1858", "(858"},
	}
	for _, tt := range tests {
		if got := AutoFormat(tt.in); got != tt.want {
			t.Errorf("AutoFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"858-369-5555", true},
		{"(858) 369-5555", true},
		{"18583695555", true},
		{"28583695555", false},
		{"12345", false},
		{"", false},
		{"858369555", false},
	}
	for _, tt := range tests {
		if got := IsValidPhoneNumber(tt.in); got != tt.want {
			t.Errorf("IsValidPhoneNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDigitsAndNormalize(t *testing.T) {
	if got := Digits("a1b2-3 4"); got != "1234" {
		t.Fatalf("Digits = %q", got)
	}
	if got := NormalizePhone("1 (858) 369-5555"); got != "8583695555" {
		t.Fatalf("NormalizePhone = %q", got)
	}
	// A stored 10 digit number starting with 1 keeps every digit on display.
	if n := NormalizePhone("1234567890"); n != "1234567890" || AutoFormat(n) != "(123) 456-7890" {
		t.Fatalf("NormalizePhone/AutoFormat = %q / %q", n, AutoFormat(n))
	}
	if got := NormalizePhone("555"); got != "" {
		t.Fatalf("NormalizePhone(invalid) = %q, want empty", got)
	}
}
