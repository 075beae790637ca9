package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RateOfRise returns the minute-over-minute temperature delta rounded to one
// decimal place, or nil when the previous-minute temperature is missing.
// Strictly consecutive-minute difference at 1-minute granularity; no
// smoothing, no multi-minute window.
func RateOfRise(current float64, previous *float64) *float64 {
	if previous == nil {
		return nil
	}
	d := round1(current - *previous)
	return &d
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatClock renders elapsed seconds as "MM:SS".
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ParseClock converts "MM:SS" back to seconds. Malformed input yields 0,
// matching the tolerant restore path ("00:00" default).
func ParseClock(s string) int {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	m, err1 := strconv.Atoi(parts[0])
	sec, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || m < 0 || sec < 0 {
		return 0
	}
	return m*60 + sec
}

// FormatSigned renders a one-decimal diff with an explicit sign, e.g. "+50.0".
func FormatSigned(v float64) string {
	return fmt.Sprintf("%+.1f", v)
}
