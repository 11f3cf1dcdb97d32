package deps

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	rankerrors "github.com/abatilo/taskrank/internal/errors"
	"github.com/abatilo/taskrank/internal/task"
)

// Graph represents the dependency relationships within one batch of tasks.
// Edges point from a task to the tasks it depends on. References to IDs that
// are not in the batch are ignored.
type Graph struct {
	tasks      map[task.ID]*task.Task
	order      []task.ID
	dependents map[task.ID][]task.ID
}

// NewGraph creates a Graph from a batch. When an ID occurs more than once the
// last record wins, but the ID keeps its first position in batch order.
func NewGraph(tasks []*task.Task) *Graph {
	g := &Graph{
		tasks:      make(map[task.ID]*task.Task, len(tasks)),
		dependents: make(map[task.ID][]task.ID),
	}
	for _, t := range tasks {
		if _, seen := g.tasks[t.ID]; !seen {
			g.order = append(g.order, t.ID)
		}
		g.tasks[t.ID] = t
	}
	for _, id := range g.order {
		for _, depID := range uniqueDeps(g.tasks[id]) {
			g.dependents[depID] = append(g.dependents[depID], id)
		}
	}
	return g
}

// Get returns a task by ID.
func (g *Graph) Get(id task.ID) *task.Task {
	return g.tasks[id]
}

// Len returns the number of distinct tasks in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// Dependents returns IDs of tasks that depend on the given task, in batch
// order. A task that lists itself is its own dependent.
func (g *Graph) Dependents(id task.ID) []task.ID {
	return g.dependents[id]
}

// BlockedCount returns how many tasks in the batch list id as a dependency.
func (g *Graph) BlockedCount(id task.ID) int {
	return len(g.dependents[id])
}

// CountDependents counts the tasks in a batch whose dependency list contains
// id, without building a Graph.
func CountDependents(tasks []*task.Task, id task.ID) int {
	n := 0
	for _, t := range tasks {
		if t.DependsOn(id) {
			n++
		}
	}
	return n
}

// Cycles returns the groups of task IDs that sit on a circular dependency
// chain. Each group is a strongly connected component with more than one
// member, or a single task that depends on itself. Groups and their members
// follow batch order.
func (g *Graph) Cycles() [][]task.ID {
	index := make(map[task.ID]int64, len(g.order))
	dg := simple.NewDirectedGraph()
	for i, id := range g.order {
		index[id] = int64(i)
		dg.AddNode(simple.Node(i))
	}

	selfLoop := make(map[int64]bool)
	for i, id := range g.order {
		from := int64(i)
		for _, depID := range g.tasks[id].Dependencies {
			to, ok := index[depID]
			if !ok {
				continue // Dangling reference
			}
			if to == from {
				selfLoop[from] = true
				continue
			}
			if !dg.HasEdgeFromTo(from, to) {
				dg.SetEdge(dg.NewEdge(simple.Node(from), simple.Node(to)))
			}
		}
	}

	var groups [][]int64
	for _, scc := range topo.TarjanSCC(dg) {
		if len(scc) == 1 && !selfLoop[scc[0].ID()] {
			continue
		}
		members := make([]int64, len(scc))
		for i, n := range scc {
			members[i] = n.ID()
		}
		slices.Sort(members)
		groups = append(groups, members)
	}
	slices.SortFunc(groups, func(a, b []int64) int {
		return int(a[0] - b[0])
	})

	cycles := make([][]task.ID, len(groups))
	for i, members := range groups {
		ids := make([]task.ID, len(members))
		for j, n := range members {
			ids[j] = g.order[n]
		}
		cycles[i] = ids
	}
	return cycles
}

// DetectCycles returns every task ID that participates in at least one
// circular dependency chain.
func (g *Graph) DetectCycles() Set {
	set := make(Set)
	for _, group := range g.Cycles() {
		for _, id := range group {
			set.Add(id)
		}
	}
	return set
}

// DetectCycles builds a Graph for the batch and returns its cycle set.
func DetectCycles(tasks []*task.Task) Set {
	return NewGraph(tasks).DetectCycles()
}

// WouldCreateCycle checks if adding a dependency from -> to would create a cycle.
// Uses BFS from 'to' to see if we can reach 'from'.
func (g *Graph) WouldCreateCycle(from, to task.ID) bool {
	visited := make(map[task.ID]bool)
	queue := []task.ID{to}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == from {
			return true
		}
		if visited[current] {
			continue
		}
		visited[current] = true

		if t := g.tasks[current]; t != nil {
			queue = append(queue, t.Dependencies...)
		}
	}
	return false
}

// ValidateAddDep validates adding a dependency from -> to.
func (g *Graph) ValidateAddDep(from, to task.ID) error {
	if g.tasks[from] == nil {
		return rankerrors.TaskNotFoundError{ID: from}
	}
	if g.tasks[to] == nil {
		return rankerrors.TaskNotFoundError{ID: to}
	}
	if g.WouldCreateCycle(from, to) {
		return CycleError{From: from, To: to}
	}
	return nil
}

func uniqueDeps(t *task.Task) []task.ID {
	seen := make(map[task.ID]bool, len(t.Dependencies))
	out := make([]task.ID, 0, len(t.Dependencies))
	for _, d := range t.Dependencies {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
