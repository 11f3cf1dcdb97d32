package task

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DueDateLayout is the textual form of a due date. Month and day may be
// written without zero padding.
const DueDateLayout = "2006-1-2"

// ID identifies a task within a batch.
type ID string

// String returns the ID as plain text.
func (id ID) String() string {
	return string(id)
}

// MarshalJSON writes canonical integer IDs as JSON numbers and everything
// else as JSON strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *ID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ID(canonicalNumber(n.String()))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return InvalidIDError{Raw: string(data)}
	}
	*id = ID(s)
	return nil
}

// UnmarshalYAML accepts any scalar node.
func (id *ID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return InvalidIDError{Raw: value.Tag}
	}
	switch value.ShortTag() {
	case "!!int", "!!float":
		*id = ID(canonicalNumber(value.Value))
	default:
		*id = ID(value.Value)
	}
	return nil
}

// maxExactInt is the largest integer a float64 holds without rounding.
const maxExactInt = 1 << 53

// canonicalNumber rewrites integral numbers such as 1.0 or 1e0 as plain
// integers so that every spelling of the same number names the same task.
func canonicalNumber(text string) string {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return text
	}
	if f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return text
	}
	return strconv.FormatInt(int64(f), 10)
}

// Task is a unit of work submitted for ranking.
type Task struct {
	ID             ID        `yaml:"id"`
	Title          string    `yaml:"title"`
	DueDate        string    `yaml:"due_date"`
	EstimatedHours float64   `yaml:"estimated_hours"`
	Importance     int       `yaml:"importance"`
	Dependencies   []ID      `yaml:"dependencies,omitempty"`
	Completed      bool      `yaml:"completed"`
	CreatedAt      time.Time `yaml:"created_at,omitempty"` // Set for stored tasks only
	Score          float64   `yaml:"-"`                    // Written by scoring
	Rationale      string    `yaml:"-"`                    // Written by scoring
	Description    string    `yaml:"-"`                    // Stored as markdown body, not frontmatter
}

// ParseDueDate parses the task's due date.
func (t *Task) ParseDueDate() (time.Time, error) {
	return ParseDate(t.DueDate)
}

// DependsOn reports whether the task lists id among its dependencies.
func (t *Task) DependsOn(id ID) bool {
	for _, d := range t.Dependencies {
		if d == id {
			return true
		}
	}
	return false
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DueDateLayout, s)
	if err != nil {
		return time.Time{}, InvalidDateError{Value: s}
	}
	return d, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(d time.Time) string {
	return d.Format(time.DateOnly)
}

// Date truncates an instant to its calendar date in the instant's own
// location, returned at UTC midnight so dates compare by day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsValidImportance checks if an importance value is on the 1-10 scale.
func IsValidImportance(importance int) bool {
	return importance >= MinImportance && importance <= MaxImportance
}

const (
	MinImportance = 1
	MaxImportance = 10
)
