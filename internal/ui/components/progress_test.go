package components

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestProgressBarClampsAndFills(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		filled  int
	}{
		{"empty", 0, 0},
		{"half", 50, 10},
		{"full", 100, 20},
		{"over", 140, 20},
		{"negative", -5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewProgressBar("", tt.percent, false, 20).View()
			assert.Equal(t, tt.filled, strings.Count(out, "█"))
			assert.Equal(t, 20, lipgloss.Width(out))
		})
	}
}

func TestProgressBarShowsPercent(t *testing.T) {
	out := NewProgressBar("Accuracy", 72.4, true, 40).View()
	assert.Contains(t, out, "Accuracy")
	assert.Contains(t, out, "72%")
	assert.Equal(t, 40, lipgloss.Width(out))
}
