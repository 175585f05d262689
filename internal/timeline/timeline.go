// Package timeline formats study durations for learners.
package timeline

import (
	"fmt"
	"math"
)

// WeeksFor returns how many weeks a number of quizzes takes at the given
// weekly pace, rounded up. A non-positive pace is treated as one per week.
func WeeksFor(quizzes, perWeek int) int {
	if quizzes <= 0 {
		return 0
	}
	if perWeek <= 0 {
		perWeek = 1
	}
	return int(math.Ceil(float64(quizzes) / float64(perWeek)))
}

// FormatWeeks renders a duration in the largest natural unit: weeks below
// a month, months below a year, then years. Months are 4 weeks.
func FormatWeeks(weeks int) string {
	if weeks < 1 {
		weeks = 1
	}
	if weeks < 4 {
		return plural(weeks, "week")
	}
	months := int(math.Ceil(float64(weeks) / 4))
	if months < 12 {
		return plural(months, "month")
	}
	years := int(math.Ceil(float64(months) / 12))
	return plural(years, "year")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
