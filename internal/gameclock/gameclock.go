// Package gameclock converts between the M:SS display form of the game
// clock and an integer count of seconds.
package gameclock

import (
	"fmt"
	"strings"
	"unicode"
)

// Default is the clock value used when a countdown is started at zero and
// when the scoreboard is reset.
const (
	Default        = "12:00"
	DefaultSeconds = 12 * 60
)

// CriticalSeconds is the threshold at or below which the clock is shown
// as running out.
const CriticalSeconds = 60

// maxPart caps each parsed component so minutes*60+seconds cannot overflow.
const maxPart = 1 << 24

// Parse converts clock text to seconds. The text is split on the first
// colon; the left part is minutes and the right part is seconds. Each
// part is read as a leading integer, so "7x" is 7 and "x7" is 0. Missing
// or non-numeric parts count as zero and negative totals clamp to zero.
// Parse never fails.
func Parse(text string) int {
	text = strings.TrimSpace(text)
	minPart, secPart, _ := strings.Cut(text, ":")

	total := leadingInt(minPart)*60 + leadingInt(secPart)
	if total < 0 {
		return 0
	}
	return total
}

// Format renders seconds as M:SS. Minutes are unbounded; negative input
// renders as 0:00.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Critical reports whether the clock is in its final minute.
func Critical(seconds int) bool {
	return seconds <= CriticalSeconds
}

// leadingInt reads an optionally signed run of digits from the start of
// s, after any leading Unicode whitespace. Anything after the digits is
// ignored.
func leadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		if n < maxPart {
			n = n*10 + int(c-'0')
		}
	}
	if n > maxPart {
		n = maxPart
	}
	if neg {
		return -n
	}
	return n
}
