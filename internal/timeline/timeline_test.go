package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeeksFor(t *testing.T) {
	assert.Equal(t, 0, WeeksFor(0, 3))
	assert.Equal(t, 9, WeeksFor(25, 3))
	assert.Equal(t, 13, WeeksFor(25, 2))
	assert.Equal(t, 7, WeeksFor(7, 0))
}

func TestFormatWeeks(t *testing.T) {
	tests := []struct {
		weeks int
		want  string
	}{
		{0, "1 week"},
		{1, "1 week"},
		{3, "3 weeks"},
		{4, "1 month"},
		{9, "3 months"},
		{44, "11 months"},
		{45, "1 year"},
		{100, "3 years"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatWeeks(tt.weeks), "weeks=%d", tt.weeks)
	}
}
