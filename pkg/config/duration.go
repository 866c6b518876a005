package config

import (
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses durations like the standard library but also
// accepts a day suffix. Examples: "30d", "7d", "168h", "5m", "30s".
func ParseDuration(s string) (time.Duration, error) {
	if value, ok := strings.CutSuffix(s, "d"); ok {
		if days, err := strconv.Atoi(value); err == nil && days >= 0 {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
