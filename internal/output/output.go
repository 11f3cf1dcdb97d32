package output

import (
	"time"

	"github.com/abatilo/taskrank/internal/task"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatAnalysis(today time.Time, ranked []*task.Task, cycles [][]task.ID) string
	FormatSuggestions(suggestions []*task.Task) string
	FormatCycles(cycles [][]task.ID) string
	FormatTask(t *task.Task) string
	FormatTaskList(tasks []*task.Task) string
	FormatError(err error) string
	FormatMessage(msg string) string
	FormatGraph(nodes []GraphNode) string
}

// GraphNode represents a node in the dependency graph output.
type GraphNode struct {
	Task     *task.Task
	Children []GraphNode
	Seen     bool // Already expanded elsewhere in the tree
}
