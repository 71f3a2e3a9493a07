package cooldown

import (
	"fmt"
	"strings"
	"time"
)

// Readable renders a wait duration for end users, e.g. "2 minutes 30 seconds".
// Sub-second remainders round up so the user never waits longer than told.
func Readable(d time.Duration) string {
	if d <= 0 {
		return "0 seconds"
	}

	totalSeconds := int((d + time.Second - 1) / time.Second)
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60

	var parts []string
	if minutes > 0 {
		parts = append(parts, pluralize(minutes, "minute"))
	}
	if seconds > 0 || minutes == 0 {
		parts = append(parts, pluralize(seconds, "second"))
	}
	return strings.Join(parts, " ")
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
