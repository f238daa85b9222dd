package ticktick

// ChecklistItem is one subtask line inside a task's checklist.
type ChecklistItem struct {
	Title  string `json:"title"`
	Status int    `json:"status,omitempty"`
}

// TaskPayload is the wire shape of a task sent to the Open API. Zero-valued
// fields are omitted so partial updates only touch what the caller set;
// Priority is a pointer because 0 ("none") is a meaningful value.
type TaskPayload struct {
	ID         string          `json:"id,omitempty"`
	Title      string          `json:"title,omitempty"`
	ProjectID  string          `json:"projectId,omitempty"`
	Content    string          `json:"content,omitempty"`
	Desc       string          `json:"desc,omitempty"`
	StartDate  string          `json:"startDate,omitempty"`
	DueDate    string          `json:"dueDate,omitempty"`
	TimeZone   string          `json:"timeZone,omitempty"`
	Priority   *int            `json:"priority,omitempty"`
	RepeatFlag string          `json:"repeatFlag,omitempty"`
	IsAllDay   *bool           `json:"isAllDay,omitempty"`
	Items      []ChecklistItem `json:"items,omitempty"`
	ParentID   string          `json:"parentId,omitempty"`
}

// ProjectPayload is the wire shape of a project sent to the Open API. All
// fields are optional on update; creation requires a name.
type ProjectPayload struct {
	Name     string `json:"name,omitempty"`
	Color    string `json:"color,omitempty"`
	ViewMode string `json:"viewMode,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

// Result is the uniform outcome of a gateway call: the decoded JSON body.
// A map carrying the "error" key marks a failure; anything else (including
// the empty map produced by 204 responses) is a success. List endpoints
// yield a []any.
type Result = any

// Failure builds a failure Result with the given message.
func Failure(msg string) Result {
	return map[string]any{"error": msg}
}

// IsErr reports whether a Result is a failure, returning the error message
// when it is.
func IsErr(r Result) (string, bool) {
	m, ok := r.(map[string]any)
	if !ok {
		return "", false
	}
	v, present := m["error"]
	if !present {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return "unknown error", true
}
