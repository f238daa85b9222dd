package batch

import (
	"fmt"
	"strings"
)

// Item is one raw entry in a batch request. A nil Item marks a list element
// that was not an object; validation reports it instead of panicking.
type Item map[string]any

// String returns the string value of a key, or "" when absent or not a
// string.
func (it Item) String(key string) string {
	if it == nil {
		return ""
	}
	s, _ := it[key].(string)
	return s
}

// Has reports whether a key is present with a non-empty string value.
func (it Item) Has(key string) bool {
	return it.String(key) != ""
}

// Normalize folds a single object or a list of objects into a slice of
// Items. The second return value reports whether the input was a single
// object, which changes how results are worded. The error message is "" when
// the input shape is acceptable; an empty list or a non-object, non-list
// input is rejected outright.
func Normalize(input any, itemName string) ([]Item, bool, string) {
	lower := strings.ToLower(itemName)

	switch v := input.(type) {
	case map[string]any:
		return []Item{Item(v)}, true, ""
	case []any:
		if len(v) == 0 {
			return nil, false, fmt.Sprintf("No %ss provided. Please provide at least one %s.", lower, lower)
		}
		items := make([]Item, len(v))
		for i, elem := range v {
			if m, ok := elem.(map[string]any); ok {
				items[i] = Item(m)
			}
		}
		return items, false, ""
	default:
		return nil, false, fmt.Sprintf("Invalid input. %ss must be a dictionary or list of dictionaries.", itemName)
	}
}

// RequireFields checks that every named field is present and non-empty,
// returning one error per missing field addressed by the item's 1-based
// position.
func RequireFields(item Item, fields []string, index int, itemName string) []string {
	if item == nil {
		return []string{fmt.Sprintf("%s %d: Must be a dictionary", itemName, index+1)}
	}

	var errs []string
	for _, field := range fields {
		if !item.Has(field) {
			errs = append(errs, fmt.Sprintf("%s %d: Missing required field '%s'", itemName, index+1, field))
		}
	}
	return errs
}

// ValidateAll runs validate over every item and collects all errors. It never
// stops early: the caller gets the full list of problems in one round trip.
func ValidateAll(items []Item, validate func(item Item, index int) []string) []string {
	var errs []string
	for i, item := range items {
		errs = append(errs, validate(item, i)...)
	}
	return errs
}

// ValidationFailure formats collected validation errors into the message
// returned to the caller. The batch is rejected as a whole; nothing was
// dispatched.
func ValidationFailure(errs []string) string {
	return "Validation errors found:\n" + strings.Join(errs, "\n")
}

// Success is one successfully dispatched item.
type Success struct {
	Position int    // 1-based position in the batch
	Label    string // human label, usually the title or ID
	Detail   string // pre-formatted detail for the report
}

// Operation carries the grammatical forms of a batch verb used in reports.
type Operation struct {
	Present string
	Past    string
	Noun    string
}

var (
	OpCreate   = Operation{Present: "create", Past: "created", Noun: "creation"}
	OpUpdate   = Operation{Present: "update", Past: "updated", Noun: "update"}
	OpComplete = Operation{Present: "complete", Past: "completed", Noun: "completion"}
	OpDelete   = Operation{Present: "delete", Past: "deleted", Noun: "deletion"}
)

// Process dispatches op over the items in order. There is no rollback and no
// early exit: a failure is recorded and the remaining items still run. The
// op composes its own failure message so it can include labels Process does
// not know about.
func Process(items []Item, op func(index int, item Item) (Success, error)) (succeeded []Success, failed []string) {
	for i, item := range items {
		s, err := op(i, item)
		if err != nil {
			failed = append(failed, err.Error())
			continue
		}
		succeeded = append(succeeded, s)
	}
	return succeeded, failed
}

// Report aggregates the outcome of one batch operation.
type Report struct {
	Single    bool
	ItemName  string // singular, lower case, e.g. "task"
	Operation Operation
	Succeeded []Success
	Failed    []string
}

// Format renders the report. Single-item operations get a plain sentence;
// batches get counts followed by the per-item lists in original order.
func (r Report) Format() string {
	if r.Single {
		if len(r.Succeeded) > 0 {
			if d := r.Succeeded[0].Detail; d != "" {
				return d
			}
			return fmt.Sprintf("%s %s successfully.", capitalize(r.ItemName), r.Operation.Past)
		}
		msg := fmt.Sprintf("Failed to %s %s:", r.Operation.Present, r.ItemName)
		if len(r.Failed) > 0 {
			msg += "\n" + r.Failed[0]
		}
		return msg
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Batch %s %s completed.\n\n", r.ItemName, r.Operation.Noun)
	fmt.Fprintf(&b, "Successfully %s: %d %ss\n", r.Operation.Past, len(r.Succeeded), r.ItemName)
	fmt.Fprintf(&b, "Failed: %d %ss\n\n", len(r.Failed), r.ItemName)

	if len(r.Succeeded) > 0 {
		fmt.Fprintf(&b, "✅ Successfully %s %ss:\n", capitalize(r.Operation.Past), capitalize(r.ItemName))
		for _, s := range r.Succeeded {
			if s.Detail != "" {
				b.WriteString(s.Detail + "\n")
			} else {
				fmt.Fprintf(&b, "- %s\n", s.Label)
			}
		}
		b.WriteString("\n")
	}

	if len(r.Failed) > 0 {
		fmt.Fprintf(&b, "❌ Failed %ss:\n", capitalize(r.ItemName))
		for _, msg := range r.Failed {
			b.WriteString(msg + "\n")
		}
	}

	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
