package analytics

import (
	"math"
	"time"
)

const (
	DefaultWindowDays = 7
	DefaultTopK       = 3
	dateLayout        = "2006-01-02"
)

// Percent returns part/total as a percentage with one decimal, or 0 when total is 0.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return RoundTenth(float64(part) * 100 / float64(total))
}

// RoundTenth rounds half away from zero to one decimal place.
func RoundTenth(x float64) float64 {
	return math.Round(x*10) / 10
}

func meanRounded(sum float64, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(sum / float64(n)))
}

func resolveLocation(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

func resolveWindow(days int) int {
	if days <= 0 {
		return DefaultWindowDays
	}
	return days
}
