// Package timeunit converts between minute and hour granularity durations.
// Durations are carried as integer minutes everywhere else in the module;
// these helpers are the only place where hours, decimal hours or display
// strings are produced or parsed.
package timeunit

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDuration = errors.New("invalid duration")

// ToHoursMinutes splits a non-negative minute total into hours and minutes.
func ToHoursMinutes(totalMinutes int) (hours int, minutes int, err error) {
	if totalMinutes < 0 {
		return 0, 0, fmt.Errorf("%w: %d minutes is negative", ErrInvalidDuration, totalMinutes)
	}
	return totalMinutes / 60, totalMinutes % 60, nil
}

// ToMinutes joins hours and minutes back into a minute total.
func ToMinutes(hours int, minutes int) (int, error) {
	if hours < 0 || minutes < 0 {
		return 0, fmt.Errorf("%w: negative component (%dh %dm)", ErrInvalidDuration, hours, minutes)
	}
	if minutes > 59 {
		return 0, fmt.Errorf("%w: minutes %d outside [0,59]", ErrInvalidDuration, minutes)
	}
	return hours*60 + minutes, nil
}

// Format renders a minute total as "<H>h <M>m".
func Format(totalMinutes int) string {
	if totalMinutes < 0 {
		return "-" + Format(-totalMinutes)
	}
	return fmt.Sprintf("%dh %dm", totalMinutes/60, totalMinutes%60)
}

// FormatClock renders elapsed seconds as HH:MM:SS.
func FormatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

var freeformToken = regexp.MustCompile(`(?i)(\d*\.?\d+)\s*([hm])`)

// ParseFreeform reads durations such as "2h 30m", "45m", "1.5h" or ".5h".
// Unrecognised or empty input yields 0 rather than an error. A number glued
// to a preceding digit, '.' or ',' (as in "1,5h") is not a token.
func ParseFreeform(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	var total float64
	for _, loc := range freeformToken.FindAllStringSubmatchIndex(text, -1) {
		if start := loc[0]; start > 0 && strings.ContainsRune("0123456789.,", rune(text[start-1])) {
			continue
		}
		value, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(text[loc[4]:loc[5]]) {
		case "h":
			total += value * 60
		case "m":
			total += value
		}
	}
	return int(math.Round(total))
}

// FromDecimalHours converts a fractional hour value received at a boundary
// (e.g. 0.5) into whole minutes.
func FromDecimalHours(hours float64) (int, error) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return 0, fmt.Errorf("%w: %v hours", ErrInvalidDuration, hours)
	}
	return int(math.Round(hours * 60)), nil
}

// MinutesBetween returns the whole minutes elapsed from start to end.
func MinutesBetween(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("%w: end %s before start %s", ErrInvalidDuration, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return int(end.Sub(start) / time.Minute), nil
}
