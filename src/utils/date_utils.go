package utils

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts seen across export tool versions, tried in order.
var dateLayouts = []string{
	"2006/01/02",
	"2006-01-02",
	"2006/1/2",
	"2006年01月02日",
	"2006年1月2日",
	"20060102",
}

// ParseDate parses a calendar date in any of the layouts the export tools
// emit. The result carries no time component (midnight UTC).
func ParseDate(dateStr string) (time.Time, error) {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}
