package program

import (
	"fmt"
	"strings"
)

// The four canonical training days, stored in the database exactly as spelled
// here. The user facing labels are Pass 1 to Pass 4.
const (
	DayUpperA = "Upper A"
	DayLowerA = "Lower A"
	DayUpperB = "Upper B"
	DayLowerB = "Lower B"
)

// Days lists the canonical days in training order.
var Days = []string{DayUpperA, DayLowerA, DayUpperB, DayLowerB}

const (
	// TotalWeeks is the program length.
	TotalWeeks = 12
	// DeloadWeek is the final program week, trained at reduced volume and load.
	DeloadWeek = 12
)

// Training blocks of the 12 week program.
const (
	BlockHypertrophy = "Hypertrofi"
	BlockStrength    = "Styrka"
	BlockDeload      = "Deload"
)

// BlockForWeek classifies a 1-based program week: weeks 1 to 8 hypertrophy,
// 9 to 11 strength, week 12 deload.
func BlockForWeek(week int) string {
	switch {
	case week <= 8:
		return BlockHypertrophy
	case week <= 11:
		return BlockStrength
	default:
		return BlockDeload
	}
}

// ValidWeek says whether week is within the program.
func ValidWeek(week int) bool {
	return week >= 1 && week <= TotalWeeks
}

// DisplayDay returns the user facing label for a canonical day.
func DisplayDay(day string) string {
	for i, d := range Days {
		if d == day {
			return fmt.Sprintf("Pass %d", i+1)
		}
	}
	return day
}

// CanonicalDay resolves a day label given in either canonical or display
// form, case insensitively. The second return value is false for labels that
// match no training day.
func CanonicalDay(label string) (string, bool) {
	label = strings.TrimSpace(label)
	for i, d := range Days {
		if strings.EqualFold(label, d) || strings.EqualFold(label, fmt.Sprintf("Pass %d", i+1)) {
			return d, true
		}
	}
	return "", false
}

func dayRank(day string) int {
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return len(Days)
}
