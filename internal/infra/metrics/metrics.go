package metrics

import (
	"strings"
	"time"
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Since returns the seconds elapsed since start, for histogram observations.
func Since(start time.Time) float64 { return time.Since(start).Seconds() }
