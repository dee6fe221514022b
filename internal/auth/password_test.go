package auth

import "testing"

func TestCheckStrength(t *testing.T) {
	tests := []struct {
		password string
		score    int
		label    string
	}{
		{"", 0, "weak"},
		{"abc", 2, "weak"},
		{"abcdefgh", 3, "medium"},
		{"Abcdefgh", 4, "medium"},
		{"Abcdefg1", 5, "strong"},
		{"Abcdef1!", 6, "optimal"},
		{"Abc def1!", 5, "strong"},
		{"Àbcdefg1!", 5, "strong"}, // non-ASCII upper does not count
	}
	for _, tt := range tests {
		s := CheckStrength(tt.password)
		if s.Score != tt.score || s.Label() != tt.label {
			t.Errorf("CheckStrength(%q) = %d/%s, want %d/%s", tt.password, s.Score, s.Label(), tt.score, tt.label)
		}
		if s.Valid() != (tt.score == 6) {
			t.Errorf("CheckStrength(%q).Valid() = %v", tt.password, s.Valid())
		}
	}
}
