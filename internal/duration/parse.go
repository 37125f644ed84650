// Package duration parses human friendly durations for settings such as
// history_max_age ("90d") and timeout ("1500ms").
package duration

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const day = 24 * time.Hour

var units = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"µs": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  day,
	"w":  7 * day,
}

// Parse accepts everything time.ParseDuration does plus d (days) and
// w (weeks), in any mix: "2w", "1d12h", "1.5d".
func Parse(value string) (time.Duration, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, true
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}

	var total float64
	for s != "" {
		numEnd := strings.IndexFunc(s, func(r rune) bool { return r != '.' && !unicode.IsDigit(r) })
		if numEnd <= 0 {
			return 0, false
		}
		n, err := strconv.ParseFloat(s[:numEnd], 64)
		if err != nil {
			return 0, false
		}
		s = s[numEnd:]

		unitEnd := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
		if unitEnd < 0 {
			unitEnd = len(s)
		}
		scale, ok := units[strings.ToLower(s[:unitEnd])]
		if !ok {
			return 0, false
		}
		s = s[unitEnd:]

		total += n * float64(scale)
		if total > math.MaxInt64 {
			return 0, false
		}
	}
	if neg {
		total = -total
	}
	return time.Duration(math.Round(total)), true
}
