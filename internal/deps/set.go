package deps

import (
	"slices"

	"github.com/abatilo/taskrank/internal/task"
)

// Set is an unordered collection of task IDs.
type Set map[task.ID]struct{}

// Add inserts id into the set.
func (s Set) Add(id task.ID) {
	s[id] = struct{}{}
}

// Has reports whether id is in the set.
func (s Set) Has(id task.ID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in lexical order, for stable output.
func (s Set) Sorted() []task.ID {
	ids := make([]task.ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
