package domain

import (
	"strings"
	"time"
)

// ParseTimestamp parses the timestamp formats the mobile clients and
// upstream feeds produce: RFC3339 with any fractional-second precision
// (fractions beyond nanoseconds are truncated) and bare dates, which are
// taken as midnight UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) == len("2006-01-02") && !strings.Contains(s, "T") {
		return time.Parse("2006-01-02", s)
	}
	return time.Parse(time.RFC3339Nano, normalizeFraction(s))
}

// normalizeFraction truncates a fractional-second component longer than
// nine digits so RFC3339Nano parsing succeeds.
func normalizeFraction(s string) string {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	end := dot + 1
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end-dot-1 <= 9 {
		return s
	}
	return s[:dot+10] + s[end:]
}
