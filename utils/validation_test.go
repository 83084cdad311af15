package utils

import "testing"

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare 10 digits", "9876543210", "+919876543210"},
		{"with country code digits", "919876543210", "+919876543210"},
		{"already E.164", "+919876543210", "+919876543210"},
		{"with separators", "98765 43210", "+919876543210"},
		{"with dashes and parens", "(987) 654-3210", "+919876543210"},
		{"foreign E.164", "+14155552671", "+14155552671"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPhoneNumber(tt.input); got != tt.want {
				t.Fatalf("FormatPhoneNumber(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid E.164", "+919876543210", true},
		{"valid bare digits", "9876543210", true},
		{"valid with separators", "+91 98765-43210", true},
		{"too short", "12345", false},
		{"too long", "+1234567890123456", false},
		{"letters", "98765abcde", false},
		{"leading zero", "0123456789", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePhone(tt.input); got != tt.want {
				t.Fatalf("ValidatePhone(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
