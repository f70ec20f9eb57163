package warehouse

import (
	"strconv"
	"strings"
)

// UnknownHour marks a time value that could not be parsed.
const UnknownHour = -1

// ExtractHour pulls the hour of day out of the irregular time values the
// source system emits: "14:32:00", "0 days 14:32:00", "93000", "93000.0".
// Anything unparseable resolves to UnknownHour.
func ExtractHour(raw string) int {
	s := strings.TrimSpace(raw)
	switch s {
	case "", "None", "NaN", "NaT":
		return UnknownHour
	}

	if strings.Contains(s, ":") {
		fields := strings.Fields(s)
		timePart := fields[len(fields)-1]
		h, err := strconv.Atoi(strings.SplitN(timePart, ":", 2)[0])
		if err != nil || h < 0 || h > 23 {
			return UnknownHour
		}
		return h
	}

	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if n, err := strconv.Atoi(s); err != nil || n < 0 {
		return UnknownHour
	}
	s = PadTime(s)
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return UnknownHour
	}
	return h
}

// PadTime zero-pads a numeric HHMMSS value to its fixed six-digit width, so
// 93000 sorts and slices as 093000.
func PadTime(s string) string {
	s = strings.TrimSpace(s)
	for len(s) < 6 {
		s = "0" + s
	}
	return s
}

// NormalizeID trims an identifier and strips its leading zeros so values from
// different source tables join on the same key.
func NormalizeID(s string) string {
	s = strings.TrimSpace(s)
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" && s != "" {
		return "0"
	}
	return trimmed
}

// PadID left-pads an identifier to the fixed width the lookup tables key on.
func PadID(s string, width int) string {
	s = strings.TrimSpace(s)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// NormalizePriority strips leading zeros from a priority code for histogram
// keys ("010" and "10" are the same priority).
func NormalizePriority(s string) string {
	return NormalizeID(s)
}
