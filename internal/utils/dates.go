package utils

import "time"

// DateOnly truncates a timestamp to midnight UTC. All date-valued columns
// (production dates, checkup dates) are normalized through this before
// they are written or compared, so exact-date equality queries work.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD query parameter. The boolean reports
// whether the input was present and well formed.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
