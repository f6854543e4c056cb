// Package duration parses and formats the ISO8601-style access durations
// accepted by the JIT commands, for example "PT2H" or "PT1H30M".
package duration

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/common-fate/clio"
)

// DefaultCeiling is used when an administrator-configured ceiling
// cannot be parsed. It matches the one hour default applied by the
// upstream access tooling.
const DefaultCeiling = "PT1H"

var pattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatError indicates that a duration string does not match the
// accepted PT[nH][nM][nS] grammar.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid duration format: %q", e.Input)
}

// Parse converts an encoded duration to seconds. At least one of the
// hour, minute or second components must be present.
func Parse(text string) (int, error) {
	m := pattern.FindStringSubmatch(text)
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "") {
		return 0, &FormatError{Input: text}
	}
	var seconds int
	if m[1] != "" {
		h, _ := strconv.Atoi(m[1])
		seconds += h * 3600
	}
	if m[2] != "" {
		min, _ := strconv.Atoi(m[2])
		seconds += min * 60
	}
	if m[3] != "" {
		s, _ := strconv.Atoi(m[3])
		seconds += s
	}
	return seconds, nil
}

// Format renders seconds as a short human readable string.
//
// Durations of a minute or more are truncated to whole minutes, so 90
// seconds renders as "1 minutes". This matches the display format used
// by the rest of the access tooling and is relied on by downstream
// message parsing, so don't "fix" the pluralisation.
func Format(seconds int) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%.1f hours", float64(seconds)/3600)
	}
	if seconds >= 60 {
		return fmt.Sprintf("%d minutes", seconds/60)
	}
	return fmt.Sprintf("%d seconds", seconds)
}

// Clamp validates a requested duration against an administrator
// configured ceiling and returns the encoded duration to apply.
//
// A request above the ceiling is lowered to the ceiling, and a request
// which fails to parse falls back to the ceiling. Neither case is an
// error: access is still granted, just for the capped lifetime.
func Clamp(requested, ceiling string) string {
	maxSeconds, err := Parse(ceiling)
	if err != nil {
		clio.Warnf("Configured maximum duration %q is invalid, using %s", ceiling, DefaultCeiling)
		ceiling = DefaultCeiling
		maxSeconds, _ = Parse(ceiling)
	}

	requestedSeconds, err := Parse(requested)
	if err != nil {
		clio.Warnf("Invalid duration format %q, using the maximum duration of %s", requested, ceiling)
		return ceiling
	}
	if requestedSeconds > maxSeconds {
		clio.Warnf("Requested duration exceeds the maximum allowed duration of %s, using the maximum", ceiling)
		return ceiling
	}
	return requested
}
