package utils

import "time"

// Day is a fixed 24 hour day. Report windows are counted in these, never in calendar months.
const Day = 24 * time.Hour

// Days returns the duration of n fixed-length days
func Days(n int) time.Duration {
	return time.Duration(n) * Day
}

// GetMonthlyHours returns the number of hours in a month (approximation)
func GetMonthlyHours() float64 {
	return 730.0 // 365 days / 12 months * 24 hours
}
