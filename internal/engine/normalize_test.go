package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"hash prefix and trailing words", "#01983C Label", "01983C"},
		{"empty", "", ""},
		{"whitespace only", "   \t ", ""},
		{"lowercase", "ab12c flyer", "AB12C"},
		{"surrounding whitespace", "  4521 Brochure  ", "4521"},
		{"hash in the middle", "45#21 cover", "4521"},
		{"single token", "9999", "9999"},
		{"tab separator", "77A\tinsert", "77A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	for _, s := range []string{"#01983C Label", "", "a b c", "  #X  "} {
		first := Normalize(s)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Normalize(s))
		}
	}
}
