package domain

import "time"

// NextDueDate returns the next occurrence of dueDay on or after ref.
// If the day has already passed in ref's month the occurrence rolls to the
// next month. A dueDay larger than the target month is clamped to its last
// day, so dueDay 31 yields Feb 28 (or 29) instead of spilling into March.
func NextDueDate(dueDay int, ref time.Time) time.Time {
	if dueDay < 1 {
		dueDay = 1
	}

	year, month, _ := ref.Date()

	day := clampDay(dueDay, year, month)
	if day < ref.Day() {
		// This month's occurrence is gone, take next month's
		next := time.Date(year, month, 1, 0, 0, 0, 0, ref.Location()).AddDate(0, 1, 0)
		year, month, _ = next.Date()
		day = clampDay(dueDay, year, month)
	}

	return time.Date(year, month, day, 0, 0, 0, 0, ref.Location())
}

// clampDay limits day to the length of the given month
func clampDay(day int, year int, month time.Month) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}
