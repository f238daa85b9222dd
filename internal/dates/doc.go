// Package dates converts between the timestamp formats involved in talking
// to the TickTick API.
//
// The API emits and expects ISO-8601 timestamps whose UTC offset has no
// colon ("2025-12-16T16:00:00+0800"), while RFC 3339 parsing wants the
// colon form ("+08:00"). Normalize and ToWire translate between the two
// without changing the instant in time. Timestamps without an explicit
// offset are rejected everywhere: a wall-clock time with no zone is
// ambiguous and must not be sent to the API.
package dates
