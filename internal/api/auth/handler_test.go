package auth

import "testing"

func TestIsPasswordStrong(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"short1", false},
		{"onlyletters", false},
		{"12345678", false},
		{"letters123", true},
		{"Abcdefg1", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			if got := isPasswordStrong(tt.password); got != tt.want {
				t.Fatalf("isPasswordStrong(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestIsEmailValid(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := isEmailValid(tt.email); got != tt.want {
				t.Fatalf("isEmailValid(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}
