package output

import (
	"encoding/json"
	"time"

	"github.com/abatilo/taskrank/internal/task"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// TaskJSON is the wire representation of a task, shared by the CLI, HTTP and
// MCP surfaces.
type TaskJSON struct {
	ID             task.ID   `json:"id"`
	Title          string    `json:"title"`
	DueDate        string    `json:"due_date"`
	EstimatedHours float64   `json:"estimated_hours"`
	Importance     int       `json:"importance"`
	Dependencies   []task.ID `json:"dependencies"`
	Completed      bool      `json:"completed"`
	Score          *float64  `json:"score,omitempty"`
	Rationale      string    `json:"rationale,omitempty"`
	CreatedAt      string    `json:"created_at,omitempty"`
	Description    string    `json:"description,omitempty"`
}

// ToTaskJSON converts a task without scoring fields.
func ToTaskJSON(t *task.Task) TaskJSON {
	deps := t.Dependencies
	if deps == nil {
		deps = []task.ID{}
	}
	tj := TaskJSON{
		ID:             t.ID,
		Title:          t.Title,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		Importance:     t.Importance,
		Dependencies:   deps,
		Completed:      t.Completed,
		Description:    t.Description,
	}
	if !t.CreatedAt.IsZero() {
		tj.CreatedAt = t.CreatedAt.Format(time.RFC3339)
	}
	return tj
}

// ToScoredJSON converts a ranked task, including its score and rationale.
func ToScoredJSON(t *task.Task) TaskJSON {
	tj := ToTaskJSON(t)
	score := t.Score
	tj.Score = &score
	tj.Rationale = t.Rationale
	return tj
}

// ToScoredJSONList converts a ranked slice, preserving order.
func ToScoredJSONList(tasks []*task.Task) []TaskJSON {
	out := make([]TaskJSON, len(tasks))
	for i, t := range tasks {
		out[i] = ToScoredJSON(t)
	}
	return out
}

// CyclesJSON returns cycle groups with a non-nil outer slice.
func CyclesJSON(cycles [][]task.ID) [][]task.ID {
	if cycles == nil {
		return [][]task.ID{}
	}
	return cycles
}

type analysisJSON struct {
	Today  string      `json:"today"`
	Tasks  []TaskJSON  `json:"tasks"`
	Cycles [][]task.ID `json:"cycles"`
}

// FormatAnalysis formats a ranked batch as JSON.
func (f *JSONFormatter) FormatAnalysis(today time.Time, ranked []*task.Task, cycles [][]task.ID) string {
	return marshalJSON(analysisJSON{
		Today:  task.FormatDate(today),
		Tasks:  ToScoredJSONList(ranked),
		Cycles: CyclesJSON(cycles),
	})
}

type suggestionsJSON struct {
	Suggestions []TaskJSON `json:"suggestions"`
}

// FormatSuggestions formats suggested tasks as JSON.
func (f *JSONFormatter) FormatSuggestions(suggestions []*task.Task) string {
	return marshalJSON(suggestionsJSON{Suggestions: ToScoredJSONList(suggestions)})
}

type cyclesJSON struct {
	Cycles [][]task.ID `json:"cycles"`
}

// FormatCycles formats cycle groups as JSON.
func (f *JSONFormatter) FormatCycles(cycles [][]task.ID) string {
	return marshalJSON(cyclesJSON{Cycles: CyclesJSON(cycles)})
}

// FormatTask formats a single task as JSON.
func (f *JSONFormatter) FormatTask(t *task.Task) string {
	return marshalJSON(ToTaskJSON(t))
}

// FormatTaskList formats a list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(tasks []*task.Task) string {
	jsonTasks := make([]TaskJSON, len(tasks))
	for i, t := range tasks {
		jsonTasks[i] = ToTaskJSON(t)
	}
	return marshalJSON(jsonTasks)
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}

// graphNodeJSON is the JSON representation of a graph node.
type graphNodeJSON struct {
	ID        task.ID         `json:"id"`
	Title     string          `json:"title"`
	Completed bool            `json:"completed"`
	Seen      bool            `json:"seen,omitempty"`
	Children  []graphNodeJSON `json:"children,omitempty"`
}

func toGraphNodeJSON(node GraphNode) graphNodeJSON {
	children := make([]graphNodeJSON, len(node.Children))
	for i, c := range node.Children {
		children[i] = toGraphNodeJSON(c)
	}
	return graphNodeJSON{
		ID:        node.Task.ID,
		Title:     node.Task.Title,
		Completed: node.Task.Completed,
		Seen:      node.Seen,
		Children:  children,
	}
}

// FormatGraph formats a dependency graph as JSON.
func (f *JSONFormatter) FormatGraph(nodes []GraphNode) string {
	jsonNodes := make([]graphNodeJSON, len(nodes))
	for i, n := range nodes {
		jsonNodes[i] = toGraphNodeJSON(n)
	}
	return marshalJSON(jsonNodes)
}
