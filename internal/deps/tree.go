package deps

import (
	"github.com/abatilo/taskrank/internal/output"
	"github.com/abatilo/taskrank/internal/task"
)

// BuildTree arranges the batch as a forest for display. Roots are tasks with
// no dependency inside the batch; each node's children are the tasks it
// unblocks. Tasks reachable only through a cycle become extra roots. Each task
// is expanded once; later occurrences are leaves marked Seen.
func (g *Graph) BuildTree() []output.GraphNode {
	placed := make(map[task.ID]bool)
	var roots []output.GraphNode

	for _, id := range g.order {
		if g.hasInBatchDeps(id) {
			continue
		}
		roots = append(roots, g.buildNode(id, map[task.ID]bool{}, placed))
	}
	for _, id := range g.order {
		if !placed[id] {
			roots = append(roots, g.buildNode(id, map[task.ID]bool{}, placed))
		}
	}
	return roots
}

func (g *Graph) buildNode(id task.ID, path, placed map[task.ID]bool) output.GraphNode {
	placed[id] = true
	path[id] = true
	defer delete(path, id)

	node := output.GraphNode{Task: g.tasks[id]}
	for _, child := range g.dependents[id] {
		if path[child] {
			continue
		}
		if placed[child] {
			node.Children = append(node.Children, output.GraphNode{Task: g.tasks[child], Seen: true})
			continue
		}
		node.Children = append(node.Children, g.buildNode(child, path, placed))
	}
	return node
}

func (g *Graph) hasInBatchDeps(id task.ID) bool {
	for _, depID := range g.tasks[id].Dependencies {
		if g.tasks[depID] != nil {
			return true
		}
	}
	return false
}
