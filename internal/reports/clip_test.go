package reports

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short stays whole", "lunch", 10, "lunch"},
		{"exact length stays whole", "lunch", 5, "lunch"},
		{"long is truncated", "extremely long description", 10, "extreme..."},
		{"multi-byte runes stay whole", "cà phê sữa đá với bạn bè", 10, "cà phê ..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clip(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got), "clip must not split a rune")
			assert.False(t, strings.ContainsRune(got, utf8.RuneError))
		})
	}
}
