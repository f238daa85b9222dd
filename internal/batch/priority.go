package batch

import (
	"fmt"
	"strings"
)

// Priority levels accepted by the API. Only these four values exist; 2 and 4
// are not valid priorities.
var priorityValues = map[string]int{
	"none":   0,
	"low":    1,
	"medium": 3,
	"high":   5,
}

var priorityNames = map[int]string{
	0: "none",
	1: "low",
	3: "medium",
	5: "high",
}

// PriorityName returns the display name for a numeric priority, or the
// number itself when it is not one of the known levels.
func PriorityName(p int) string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("%d", p)
}

// NormalizePriority maps a raw priority value onto its numeric level. It
// accepts level names case-insensitively and the numeric values directly
// (JSON numbers arrive as float64). ok is false for nil and for anything
// that is not a valid level.
func NormalizePriority(v any) (int, bool) {
	switch p := v.(type) {
	case nil:
		return 0, false
	case string:
		n, ok := priorityValues[strings.ToLower(p)]
		return n, ok
	case int:
		_, ok := priorityNames[p]
		return p, ok
	case float64:
		n := int(p)
		if float64(n) != p {
			return 0, false
		}
		_, ok := priorityNames[n]
		return n, ok
	default:
		return 0, false
	}
}

// ValidatePriority checks a raw priority value and returns an error message
// addressed by the item's 1-based position, or "" when valid. A nil value is
// valid: priority is optional.
func ValidatePriority(v any, index int) string {
	switch p := v.(type) {
	case nil:
		return ""
	case string:
		if _, ok := priorityValues[strings.ToLower(p)]; !ok {
			return fmt.Sprintf(`Task %d: Invalid priority '%s'. Must be one of: "none", "low", "medium", "high"`, index+1, p)
		}
		return ""
	case int:
		if _, ok := priorityNames[p]; !ok {
			return fmt.Sprintf("Task %d: Invalid priority %d. Must be 0, 1, 3, or 5", index+1, p)
		}
		return ""
	case float64:
		n := int(p)
		if float64(n) != p {
			return fmt.Sprintf("Task %d: Invalid priority %v. Must be 0, 1, 3, or 5", index+1, p)
		}
		if _, ok := priorityNames[n]; !ok {
			return fmt.Sprintf("Task %d: Invalid priority %d. Must be 0, 1, 3, or 5", index+1, n)
		}
		return ""
	default:
		return fmt.Sprintf("Task %d: Priority must be a string or integer", index+1)
	}
}
