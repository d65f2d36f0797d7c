package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text unchanged", "Moon applying to Jupiter", "Moon applying to Jupiter"},
		{"repeated token collapsed", "Moon Moon applying to Jupiter", "Moon applying to Jupiter"},
		{"repeated run collapsed", "favor favor favor granted", "favor granted"},
		{"weight note stripped", "Translation of light (weight 3.5)", "Translation of light"},
		{"weight note case-insensitive", "Collection of light (Weight -2)", "Collection of light"},
		{"whitespace collapsed", "Querent   gains \t favor", "Querent gains favor"},
		{"mid-string parenthetical kept", "Reception (mutual) confirmed", "Reception (mutual) confirmed"},
		{"non-weight trailing parenthetical kept", "Good fortune (12.75)", "Good fortune (12.75)"},
		{"empty", "", ""},
		{"whitespace only", "  \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCleanText_Idempotent(t *testing.T) {
	inputs := []string{
		"Moon Moon applying applying to Jupiter (weight 4)",
		"Querent   gains favor",
	}

	for _, input := range inputs {
		once := CleanText(input)
		assert.Equal(t, once, CleanText(once), "input %q", input)
	}
}
