package util

import (
	"fmt"
	"time"
)

// FormatElapsed renders a duration as DD:HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	if total < 0 {
		total = 0
	}
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", days, hours, minutes, secs)
}

// FormatDaysHours renders a duration as "Xd Yh" using whole days and hours.
func FormatDaysHours(d time.Duration) string {
	total := int(d.Seconds())
	if total < 0 {
		total = 0
	}
	days := total / 86400
	hours := (total % 86400) / 3600
	return fmt.Sprintf("%dd %dh", days, hours)
}
