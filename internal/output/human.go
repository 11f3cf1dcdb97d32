package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/abatilo/taskrank/internal/task"
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct {
	theme Theme
}

// NewHumanFormatter creates a HumanFormatter styled for output written to w.
func NewHumanFormatter(w io.Writer) *HumanFormatter {
	return &HumanFormatter{theme: NewTheme(w)}
}

// FormatAnalysis formats a ranked batch, one task per line.
func (f *HumanFormatter) FormatAnalysis(today time.Time, ranked []*task.Task, cycles [][]task.ID) string {
	if len(ranked) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	sb.WriteString(f.theme.Header.Render(fmt.Sprintf("Ranked %d tasks as of %s", len(ranked), task.FormatDate(today))))
	sb.WriteString("\n")
	blocked := make(map[task.ID]bool)
	for _, group := range cycles {
		for _, id := range group {
			blocked[id] = true
		}
	}
	for i, t := range ranked {
		sb.WriteString(f.formatRankedLine(i+1, t, blocked[t.ID]))
	}
	if len(cycles) > 0 {
		sb.WriteString("\n")
		sb.WriteString(f.FormatCycles(cycles))
	}
	return sb.String()
}

// FormatSuggestions formats the tasks worth doing next.
func (f *HumanFormatter) FormatSuggestions(suggestions []*task.Task) string {
	if len(suggestions) == 0 {
		return "Nothing to suggest.\n"
	}

	var sb strings.Builder
	sb.WriteString(f.theme.Header.Render("Suggested next"))
	sb.WriteString("\n")
	for i, t := range suggestions {
		sb.WriteString(f.formatRankedLine(i+1, t, false))
	}
	return sb.String()
}

// formatRankedLine renders one ranked task. Only tasks on a dependency cycle
// get the blocked style; other zero scores such as bad dates render normally.
func (f *HumanFormatter) formatRankedLine(rank int, t *task.Task, blocked bool) string {
	score := f.theme.Score.Render(fmt.Sprintf("%6.1f", t.Score))
	rationale := t.Rationale
	if blocked {
		score = f.theme.Blocked.Render(fmt.Sprintf("%6.1f", t.Score))
		rationale = f.theme.Blocked.Render(t.Rationale)
	}
	return fmt.Sprintf("%3d. %s %s %s  %s\n",
		rank, score, f.theme.ID.Render("["+t.ID.String()+"]"), t.Title, rationale)
}

// FormatCycles formats groups of tasks on circular dependency chains.
func (f *HumanFormatter) FormatCycles(cycles [][]task.ID) string {
	if len(cycles) == 0 {
		return "No circular dependencies.\n"
	}

	var sb strings.Builder
	sb.WriteString(f.theme.Blocked.Render(fmt.Sprintf("%d circular dependency group(s)", len(cycles))))
	sb.WriteString("\n")
	for _, group := range cycles {
		ids := make([]string, len(group))
		for i, id := range group {
			ids[i] = id.String()
		}
		fmt.Fprintf(&sb, "  %s\n", strings.Join(ids, " -> "))
	}
	return sb.String()
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(t *task.Task) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s\n", f.theme.ID.Render("["+t.ID.String()+"]"), f.theme.Header.Render(t.Title))
	fmt.Fprintf(&sb, "  Due:        %s\n", t.DueDate)
	fmt.Fprintf(&sb, "  Hours:      %s\n", strconv.FormatFloat(t.EstimatedHours, 'f', -1, 64))
	fmt.Fprintf(&sb, "  Importance: %d\n", t.Importance)
	if t.Completed {
		sb.WriteString("  Completed:  yes\n")
	}
	if !t.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "  Created:    %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
	}
	if len(t.Dependencies) > 0 {
		fmt.Fprintf(&sb, "  Depends:    %s\n", joinIDs(t.Dependencies))
	}
	if t.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(t.Description)
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []*task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t *task.Task) string {
	title := t.Title
	if t.Completed {
		title = f.theme.Done.Render(title)
	}
	deps := ""
	if len(t.Dependencies) > 0 {
		deps = f.theme.Muted.Render(fmt.Sprintf(" [after: %s]", joinIDs(t.Dependencies)))
	}
	return fmt.Sprintf("%s %s due %s imp %d %sh %s%s\n",
		checkbox(t.Completed), f.theme.ID.Render("["+t.ID.String()+"]"),
		t.DueDate, t.Importance, strconv.FormatFloat(t.EstimatedHours, 'f', -1, 64), title, deps)
}

func checkbox(completed bool) string {
	if completed {
		return "[X]"
	}
	return "[ ]"
}

func joinIDs(ids []task.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return f.theme.Error.Render("Error: "+err.Error()) + "\n"
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}

// FormatGraph formats a dependency graph as ASCII art.
func (f *HumanFormatter) FormatGraph(nodes []GraphNode) string {
	if len(nodes) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for _, node := range nodes {
		f.formatGraphNode(&sb, node, "", true)
	}
	return sb.String()
}

func (f *HumanFormatter) formatGraphNode(sb *strings.Builder, node GraphNode, prefix string, isLast bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	if prefix == "" {
		connector = ""
	}

	seen := ""
	if node.Seen {
		seen = f.theme.Muted.Render(" (see above)")
	}
	fmt.Fprintf(sb, "%s%s%s [%s] %s%s\n", prefix, connector, checkbox(node.Task.Completed), node.Task.ID, node.Task.Title, seen)

	childPrefix := prefix
	if prefix != "" {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	} else {
		childPrefix = "  "
	}

	for i, child := range node.Children {
		f.formatGraphNode(sb, child, childPrefix, i == len(node.Children)-1)
	}
}
