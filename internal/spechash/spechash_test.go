package spechash

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trim", "  hello  ", "hello"},
		{"collapse spaces", "a   b\tc", "a b c"},
		{"newlines", "Given x\nWhen y\n\nThen z", "Given x When y Then z"},
		{"case preserved", "Click The Button", "Click The Button"},
		{"punctuation preserved", `enter "a@b.com" now!`, `enter "a@b.com" now!`},
		{"empty", "   \n\t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHash_Stable(t *testing.T) {
	a := Hash("Given I am on the login page")
	b := Hash("Given I am on the login page")
	if a != b {
		t.Errorf("hash not stable: %s != %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestHash_WhitespaceInsensitive(t *testing.T) {
	a := Hash("Given I am on the login page")
	b := Hash("  Given   I am on\nthe login page ")
	if a != b {
		t.Error("whitespace variants should hash identically")
	}
}

func TestHash_WordingSensitive(t *testing.T) {
	a := Hash("Given I am on the login page")
	b := Hash("Given I am on the Login page")
	if a == b {
		t.Error("case change should produce a different hash")
	}
}
