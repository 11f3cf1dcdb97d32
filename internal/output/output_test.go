//nolint:testpackage // Tests require internal access for thorough testing
package output

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/abatilo/taskrank/internal/task"
)

var today = time.Date(2023, 11, 24, 0, 0, 0, 0, time.UTC)

func rankedFixture() []*task.Task {
	return []*task.Task{
		{ID: "7", Title: "Ship", DueDate: "2023-11-20", EstimatedHours: 1, Importance: 8,
			Score: 72.1, Rationale: "Overdue, Quick Win"},
		{ID: "c", Title: "Loop", DueDate: "2023-11-27", EstimatedHours: 3, Importance: 5,
			Dependencies: []task.ID{"d"}, Rationale: "BLOCKED: Circular Dependency Detected"},
	}
}

func TestJSONFormatAnalysis(t *testing.T) {
	f := NewJSONFormatter()
	out := f.FormatAnalysis(today, rankedFixture(), [][]task.ID{{"c", "d"}})

	var got struct {
		Today string `json:"today"`
		Tasks []struct {
			ID           json.RawMessage `json:"id"`
			Score        *float64        `json:"score"`
			Rationale    string          `json:"rationale"`
			Dependencies []string        `json:"dependencies"`
		} `json:"tasks"`
		Cycles [][]string `json:"cycles"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}

	if got.Today != "2023-11-24" {
		t.Errorf("today = %q, want 2023-11-24", got.Today)
	}
	if len(got.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(got.Tasks))
	}
	if string(got.Tasks[0].ID) != "7" {
		t.Errorf("numeric id = %s, want 7", got.Tasks[0].ID)
	}
	if got.Tasks[0].Score == nil || *got.Tasks[0].Score != 72.1 {
		t.Errorf("score = %v, want 72.1", got.Tasks[0].Score)
	}
	if got.Tasks[1].Score == nil || *got.Tasks[1].Score != 0 {
		t.Errorf("blocked score should be present and zero, got %v", got.Tasks[1].Score)
	}
	if got.Tasks[0].Dependencies == nil {
		t.Error("dependencies should be [] rather than null")
	}
	if len(got.Cycles) != 1 || strings.Join(got.Cycles[0], ",") != "c,d" {
		t.Errorf("cycles = %v, want [[c d]]", got.Cycles)
	}
}

func TestJSONFormatCyclesEmpty(t *testing.T) {
	out := NewJSONFormatter().FormatCycles(nil)
	if !strings.Contains(out, `"cycles": []`) {
		t.Errorf("FormatCycles(nil) = %s, want empty array", out)
	}
}

func TestJSONFormatTaskOmitsScore(t *testing.T) {
	out := NewJSONFormatter().FormatTask(&task.Task{ID: "a", Title: "x", DueDate: "2024-01-01"})
	if strings.Contains(out, "score") {
		t.Errorf("unscored task should omit score: %s", out)
	}
}

func TestJSONFormatError(t *testing.T) {
	out := NewJSONFormatter().FormatError(errors.New("boom"))
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got["error"] != "boom" {
		t.Errorf("error = %q, want boom", got["error"])
	}
}

func TestHumanFormatAnalysis(t *testing.T) {
	f := NewHumanFormatter(io.Discard)
	out := f.FormatAnalysis(today, rankedFixture(), [][]task.ID{{"c", "d"}})

	for _, want := range []string{
		"Ranked 2 tasks as of 2023-11-24",
		"72.1",
		"[7]",
		"Overdue, Quick Win",
		"BLOCKED: Circular Dependency Detected",
		"c -> d",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Ship") > strings.Index(out, "Loop") {
		t.Errorf("ranked order not preserved:\n%s", out)
	}
}

func TestHumanFormatEmpty(t *testing.T) {
	f := NewHumanFormatter(io.Discard)
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"analysis", f.FormatAnalysis(today, nil, nil), "No tasks found.\n"},
		{"suggestions", f.FormatSuggestions(nil), "Nothing to suggest.\n"},
		{"cycles", f.FormatCycles(nil), "No circular dependencies.\n"},
		{"list", f.FormatTaskList(nil), "No tasks found.\n"},
		{"graph", f.FormatGraph(nil), "No tasks found.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestHumanFormatTask(t *testing.T) {
	f := NewHumanFormatter(io.Discard)
	out := f.FormatTask(&task.Task{
		ID: "a1", Title: "Write docs", DueDate: "2024-02-01", EstimatedHours: 1.5,
		Importance: 4, Dependencies: []task.ID{"b", "c"}, Description: "Details here",
	})
	for _, want := range []string{"[a1]", "Write docs", "2024-02-01", "1.5", "Importance: 4", "b, c", "Details here"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatTask missing %q:\n%s", want, out)
		}
	}
}

func TestHumanFormatGraph(t *testing.T) {
	root := &task.Task{ID: "a", Title: "Root"}
	child1 := &task.Task{ID: "b", Title: "First", Completed: true}
	child2 := &task.Task{ID: "c", Title: "Second"}
	out := NewHumanFormatter(io.Discard).FormatGraph([]GraphNode{{
		Task:     root,
		Children: []GraphNode{{Task: child1}, {Task: child2}},
	}})

	for _, want := range []string{"[ ] [a] Root", "├── [X] [b] First", "└── [ ] [c] Second"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatGraph missing %q:\n%s", want, out)
		}
	}
}

func TestHumanFormatAnalysisStylesOnlyCycleTasksAsBlocked(t *testing.T) {
	f := NewHumanFormatter(io.Discard)
	f.theme.Blocked = f.theme.Blocked.Transform(func(s string) string { return "<" + s + ">" })

	ranked := append(rankedFixture(), &task.Task{
		ID: "9", Title: "Bad", DueDate: "27/11/2023", EstimatedHours: 1, Importance: 5,
		Rationale: "Invalid Date Format",
	})
	out := f.FormatAnalysis(today, ranked, [][]task.ID{{"c", "d"}})

	for line := range strings.SplitSeq(out, "\n") {
		switch {
		case strings.Contains(line, "[9]"):
			if strings.Contains(line, "<") {
				t.Errorf("invalid-date task styled as blocked: %q", line)
			}
		case strings.Contains(line, "[c]"):
			if !strings.Contains(line, "<BLOCKED: Circular Dependency Detected>") {
				t.Errorf("cycle task not styled as blocked: %q", line)
			}
		}
	}
}

func TestHumanFormatGraphMarksSeenNodes(t *testing.T) {
	root := &task.Task{ID: "a", Title: "Root"}
	shared := &task.Task{ID: "s", Title: "Shared"}
	out := NewHumanFormatter(io.Discard).FormatGraph([]GraphNode{
		{Task: root, Children: []GraphNode{{Task: shared}}},
		{Task: &task.Task{ID: "b", Title: "Other"}, Children: []GraphNode{{Task: shared, Seen: true}}},
	})

	if strings.Count(out, "[s] Shared (see above)") != 1 {
		t.Errorf("expected one repeated reference to s:\n%s", out)
	}
}

func TestJSONFormatGraphMarksSeenNodes(t *testing.T) {
	out := NewJSONFormatter().FormatGraph([]GraphNode{
		{Task: &task.Task{ID: "a", Title: "Root"}, Children: []GraphNode{{Task: &task.Task{ID: "s"}, Seen: true}}},
	})
	if !strings.Contains(out, `"seen": true`) {
		t.Errorf("expected seen flag in graph JSON:\n%s", out)
	}
	if strings.Count(out, `"seen"`) != 1 {
		t.Errorf("seen should be omitted on expanded nodes:\n%s", out)
	}
}
