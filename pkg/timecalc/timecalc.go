package timecalc

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is added to the end time when a shift wraps past midnight.
const MinutesPerDay = 24 * 60

// ParseClock converts a "HH:MM" 24h string to minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}

	return hours*60 + minutes, nil
}

// PaidHours computes the paid working hours of a shift.
//
// An overnight shift, or one whose naive end is not after its start, is
// treated as crossing midnight. An unpaid break longer than the worked span
// clamps the result to zero rather than going negative.
func PaidHours(start, end string, breakMinutes int, overnight bool) (float64, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return 0, err
	}

	endMin, err := ParseClock(end)
	if err != nil {
		return 0, err
	}

	if overnight || endMin <= startMin {
		endMin += MinutesPerDay
	}

	paid := endMin - startMin - breakMinutes
	if paid < 0 {
		paid = 0
	}

	return float64(paid) / 60.0, nil
}

// CrossesMidnight reports whether a start/end pair reads as overnight when
// no explicit overnight flag is available, e.g. for template-derived shifts.
func CrossesMidnight(start, end string) bool {
	startMin, err := ParseClock(start)
	if err != nil {
		return false
	}

	endMin, err := ParseClock(end)
	if err != nil {
		return false
	}

	return endMin <= startMin
}

// FormatHours renders an hour total for display, e.g. "7.5h" or "8h".
func FormatHours(hours float64) string {
	if hours == float64(int(hours)) {
		return fmt.Sprintf("%dh", int(hours))
	}
	return strings.TrimRight(fmt.Sprintf("%.2f", hours), "0") + "h"
}
