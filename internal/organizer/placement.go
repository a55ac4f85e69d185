package organizer

import (
	"fmt"
	"time"
)

// MonthNames maps month 1..12 to a folder name. Index 0 is unused.
type MonthNames [13]string

// Plan returns the destination subpath for a capture time, always using
// forward slashes. An empty result means the destination root.
func Plan(t time.Time, sortByDate bool, months MonthNames, unknown string) string {
	return plan(t, sortByDate, months, unknown, time.Now)
}

func plan(t time.Time, sortByDate bool, months MonthNames, unknown string, now func() time.Time) string {
	if !sortByDate {
		return ""
	}

	m := int(t.Month())
	if m < 1 || m > 12 || months[m] == "" {
		return fmt.Sprintf("%d/%s", now().Year(), unknown)
	}
	return fmt.Sprintf("%04d/%s", t.Year(), months[m])
}
