package scoring

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/abatilo/taskrank/internal/deps"
	rankerrors "github.com/abatilo/taskrank/internal/errors"
	"github.com/abatilo/taskrank/internal/task"
)

// DefaultSuggestLimit is how many tasks Suggest returns when asked for none.
const DefaultSuggestLimit = 3

// Clock returns the current instant.
type Clock func() time.Time

// FixedClock returns a Clock pinned to the calendar date d.
func FixedClock(d time.Time) Clock {
	return func() time.Time { return d }
}

// Engine scores and ranks batches. It is stateless between calls and safe
// for concurrent use.
type Engine struct {
	clock  Clock
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the source of "today".
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the logger used for per-batch summaries.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an Engine reading the system clock.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{clock: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today returns the engine's reference date.
func (e *Engine) Today() time.Time {
	return task.Date(e.clock())
}

// Analysis is the result of ranking one batch.
type Analysis struct {
	Today  time.Time
	Tasks  []*task.Task // Sorted by score, highest first
	Cycles [][]task.ID  // Groups of tasks on circular dependency chains
}

// Blocked reports whether id was excluded from ranking by a cycle.
func (a *Analysis) Blocked(id task.ID) bool {
	for _, group := range a.Cycles {
		if slices.Contains(group, id) {
			return true
		}
	}
	return false
}

// Analyze scores every task in the batch against the whole batch, zeroes the
// tasks that sit on a dependency cycle, and sorts by score descending. Tasks
// with equal scores keep their input order. Score and Rationale are written
// on the records in place; no other field is touched.
func (e *Engine) Analyze(tasks []*task.Task) (*Analysis, error) {
	if err := Validate(tasks); err != nil {
		return nil, err
	}

	today := e.Today()
	graph := deps.NewGraph(tasks)
	cycles := graph.Cycles()
	blocked := make(deps.Set)
	for _, group := range cycles {
		for _, id := range group {
			blocked.Add(id)
		}
	}

	ranked := make([]*task.Task, len(tasks))
	for i, t := range tasks {
		t.Score, t.Rationale = score(t, graph.BlockedCount(t.ID), today)
		if blocked.Has(t.ID) {
			t.Score, t.Rationale = 0, RationaleBlocked
		}
		ranked[i] = t
	}
	slices.SortStableFunc(ranked, func(a, b *task.Task) int {
		return cmp.Compare(b.Score, a.Score)
	})

	e.logger.Debug("analyzed batch",
		zap.Int("tasks", len(ranked)),
		zap.Int("blocked", len(blocked)),
		zap.String("today", task.FormatDate(today)),
	)
	return &Analysis{Today: today, Tasks: ranked, Cycles: cycles}, nil
}

// Suggest returns up to limit of the highest ranked tasks that are neither
// completed nor blocked by a cycle. A limit below one means
// DefaultSuggestLimit.
func (e *Engine) Suggest(tasks []*task.Task, limit int) ([]*task.Task, error) {
	if limit < 1 {
		limit = DefaultSuggestLimit
	}
	analysis, err := e.Analyze(tasks)
	if err != nil {
		return nil, err
	}
	suggestions := make([]*task.Task, 0, limit)
	for _, t := range analysis.Tasks {
		if len(suggestions) == limit {
			break
		}
		if t.Completed || analysis.Blocked(t.ID) {
			continue
		}
		suggestions = append(suggestions, t)
	}
	return suggestions, nil
}

// Validate rejects batches the engine cannot rank: nil records and
// duplicate IDs.
func Validate(tasks []*task.Task) error {
	seen := make(map[task.ID]bool, len(tasks))
	for i, t := range tasks {
		if t == nil {
			return rankerrors.MalformedBatchError{Reason: "nil task at index " + strconv.Itoa(i)}
		}
		if math.IsNaN(t.EstimatedHours) || math.IsInf(t.EstimatedHours, 0) {
			return rankerrors.MalformedBatchError{Reason: fmt.Sprintf("task %s: estimated hours must be finite", t.ID)}
		}
		if seen[t.ID] {
			return rankerrors.DuplicateIDError{ID: t.ID}
		}
		seen[t.ID] = true
	}
	return nil
}
