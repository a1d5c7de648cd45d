package monitor

import (
	"fmt"
	"math"
	"strings"
)

var byteUnits = []string{"", "K", "M", "G", "T", "P", "E", "Z"}

// FormatBytes renders size with two decimals and a binary unit, e.g. "1.50 KB".
func FormatBytes(size float64) string {
	for _, unit := range byteUnits {
		if math.Abs(size) < 1024 {
			return fmt.Sprintf("%.2f %sB", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2f YB", size)
}

// FormatSeconds renders a duration in seconds as "1 days 2 hours 3 minutes 4 seconds",
// omitting zero parts.
func FormatSeconds(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days, rem := seconds/86400, seconds%86400
	hours, rem := rem/3600, rem%3600
	minutes, secs := rem/60, rem%60

	var parts []string
	for _, p := range []struct {
		n    int64
		unit string
	}{{days, "days"}, {hours, "hours"}, {minutes, "minutes"}, {secs, "seconds"}} {
		if p.n != 0 {
			parts = append(parts, fmt.Sprintf("%d %s", p.n, p.unit))
		}
	}
	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, " ")
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func gigabytes(b uint64) float64 {
	return round2(float64(b) / (1 << 30))
}
