package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"basic punctuation", "Hello, World! 2024", "hello-world-2024"},
		{"thai preserved", "ทดสอบ บทความ", "ทดสอบ-บทความ"},
		{"mixed thai ascii", "บทความ Go ครั้งแรก!", "บทความ-go-ครั้งแรก"},
		{"uppercase folded", "My First POST", "my-first-post"},
		{"hyphen runs collapsed", "a -- b --- c", "a-b-c"},
		{"leading trailing trimmed", "  --hello--  ", "hello"},
		{"symbols only yields empty", "!!! ???", ""},
		{"empty input", "", ""},
		{"underscores kept", "snake_case_title", "snake_case_title"},
		{"tabs and newlines", "one\ttwo\nthree", "one-two-three"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.title))
		})
	}
}

func TestDecode(t *testing.T) {
	assert.Equal(t, "ทดสอบ", Decode("%E0%B8%97%E0%B8%94%E0%B8%AA%E0%B8%AD%E0%B8%9A"))
	assert.Equal(t, "plain-slug", Decode("plain-slug"))
	// a lone percent is not a valid escape; the raw value comes back
	assert.Equal(t, "50%-off", Decode("50%-off"))
}
