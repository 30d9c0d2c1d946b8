package bot

import (
	"fmt"
	"math/rand"
	"time"
)

// fmtHM renders a remaining wait as "3h 5m" from whole seconds.
func fmtHM(d time.Duration) string {
	total := int64(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// fmtDHM renders multi-day waits as "6d 23h 59m".
func fmtDHM(d time.Duration) string {
	total := int64(d.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}

// randRange rolls a uniform integer in [lo, hi].
func randRange(lo, hi int64) int64 {
	return lo + rand.Int63n(hi-lo+1)
}
