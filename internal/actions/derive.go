package actions

import (
	"math"
	"time"
)

// ToMinorUnits converts a validated decimal amount to integer cents, rounding
// to the nearest cent so binary float representation cannot shift the stored
// value (10.1 stores as 1010, not 1009).
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Today returns the current calendar day as YYYY-MM-DD.
func Today() string {
	return time.Now().Format("2006-01-02")
}
