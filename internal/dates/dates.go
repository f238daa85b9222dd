package dates

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

// EnvDefaultTimeZone configures the process-wide IANA timezone used both for
// display and as the default time_zone of outbound tasks. The value "Local"
// (or unset) means the host's local zone.
const EnvDefaultTimeZone = "TICKTICK_DISPLAY_TIMEZONE"

var (
	// offset without colon, e.g. +0800 or -0530, at end of string
	compactOffsetRe = regexp.MustCompile(`([+-])(\d{2})(\d{2})$`)
	// offset with colon, e.g. +08:00 or -05:30, at end of string
	colonOffsetRe = regexp.MustCompile(`([+-])(\d{2}):(\d{2})$`)
)

// Normalize rewrites an ISO-8601 timestamp into RFC 3339 form:
// "Z" stays valid as-is for parsing but a compact offset like "+0800"
// becomes "+08:00". Strings that already carry a colon offset are returned
// unchanged. Normalize does not validate the timestamp.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	normalized := strings.Replace(s, "Z", "+00:00", 1)
	return compactOffsetRe.ReplaceAllString(normalized, "$1$2:$3")
}

// ToWire rewrites a timestamp into the format the TickTick API expects:
// offset without colon ("+0800"), "Z" becomes "+0000". The inverse of
// Normalize.
func ToWire(s string) string {
	if s == "" {
		return s
	}
	result := strings.Replace(s, "Z", "+0000", 1)
	return colonOffsetRe.ReplaceAllString(result, "$1$2$3")
}

// Parse parses an ISO-8601 timestamp in any of the accepted forms
// (colon offset, compact offset, or trailing Z). Timestamps without an
// explicit UTC offset are rejected.
func Parse(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	normalized := Normalize(s)
	t, err := time.Parse(time.RFC3339, normalized)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: must be ISO-8601 with timezone offset (e.g. 2025-12-16T16:00:00+08:00 or +0800)", s)
	}
	return t, nil
}

// EffectiveTimeZone picks the IANA timezone for an outbound payload:
// an explicitly provided zone wins, then the configured default, and when
// neither exists the empty string tells the caller to omit the field so the
// API treats the task as floating/all-day.
func EffectiveTimeZone(provided string) string {
	if provided != "" {
		return provided
	}
	if tz := os.Getenv(EnvDefaultTimeZone); tz != "" && tz != "Local" {
		return tz
	}
	return ""
}

// DisplayLocal converts an API timestamp to the configured display zone for
// human-readable output, keeping the original UTC form for reference.
// Unparseable input is passed through untouched.
func DisplayLocal(s string) string {
	return DisplayIn(s, "")
}

// DisplayIn is DisplayLocal with an explicit zone preference: a task's own
// timeZone field wins over the configured display zone.
func DisplayIn(s, tz string) string {
	if s == "" {
		return s
	}

	t, err := Parse(s)
	if err != nil {
		return s
	}

	zoneName := "Local"
	loc := time.Local
	if tz == "" || tz == "Local" {
		tz = os.Getenv(EnvDefaultTimeZone)
	}
	if tz != "" && tz != "Local" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
			zoneName = tz
		}
	}

	local := t.In(loc)
	return fmt.Sprintf("%s (%s) [UTC: %s]", local.Format("2006-01-02 15:04:05"), zoneName, s)
}

// Today returns today's date (at midnight) in the configured display zone.
func Today() time.Time {
	loc := time.Local
	if tz := os.Getenv(EnvDefaultTimeZone); tz != "" && tz != "Local" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether t falls on the given day in that day's location.
func SameDay(t, day time.Time) bool {
	t = t.In(day.Location())
	return t.Year() == day.Year() && t.Month() == day.Month() && t.Day() == day.Day()
}
