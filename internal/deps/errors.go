package deps

import (
	"fmt"

	"github.com/abatilo/taskrank/internal/task"
)

// CycleError indicates adding a dependency would create a cycle.
type CycleError struct {
	From task.ID
	To   task.ID
}

func (e CycleError) Error() string {
	return fmt.Sprintf("adding dependency %s -> %s would create a cycle", e.From, e.To)
}
