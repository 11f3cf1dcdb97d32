// Package scoring turns a batch of tasks into a ranked, annotated list.
//
// A task's priority blends four signals with fixed weights: urgency (how soon
// it is due, counted in business days), importance, effort (cheap tasks are
// quick wins) and fan-in (how many other tasks it unblocks).
package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/abatilo/taskrank/internal/deps"
	"github.com/abatilo/taskrank/internal/task"
	"github.com/abatilo/taskrank/internal/urgency"
)

// Weights of each signal in the composite score.
const (
	WeightUrgency    = 0.35
	WeightImportance = 0.30
	WeightDependency = 0.25
	WeightEffort     = 0.10
)

const (
	importanceScale    = 10
	effortCeiling      = 50.0
	effortPerHour      = 2.0
	dependencyPerBlock = 20
	highImportance     = 8
	quickWinHours      = 2
)

// Rationale strings with fixed text.
const (
	RationaleInvalidDate = "Invalid Date Format"
	RationaleBlocked     = "BLOCKED: Circular Dependency Detected"
	RationaleImportant   = "High Importance"
	RationaleQuickWin    = "Quick Win"
)

// Breakdown holds the intermediate signals of one score.
type Breakdown struct {
	Urgency      urgency.Assessment
	Importance   float64
	Effort       float64
	BlockedCount int
	Dependency   float64
}

// CalculatePriorityScore scores t against the batch all, as seen on today.
// all may or may not contain t itself. A due date that cannot be parsed
// yields a zero score with an explanatory rationale rather than an error.
func CalculatePriorityScore(t *task.Task, all []*task.Task, today time.Time) (float64, string) {
	return score(t, deps.CountDependents(all, t.ID), today)
}

func score(t *task.Task, blockedCount int, today time.Time) (float64, string) {
	b, ok := breakdown(t, blockedCount, today)
	if !ok {
		return 0, RationaleInvalidDate
	}
	final := WeightUrgency*b.Urgency.Score +
		WeightImportance*b.Importance +
		WeightDependency*b.Dependency +
		WeightEffort*b.Effort
	return round1(final), rationale(t, b)
}

func breakdown(t *task.Task, blockedCount int, today time.Time) (Breakdown, bool) {
	due, err := t.ParseDueDate()
	if err != nil {
		return Breakdown{}, false
	}
	return Breakdown{
		Urgency:      urgency.Assess(today, due),
		Importance:   float64(t.Importance * importanceScale),
		Effort:       math.Max(0, effortCeiling-t.EstimatedHours*effortPerHour),
		BlockedCount: blockedCount,
		Dependency:   float64(blockedCount * dependencyPerBlock),
	}, true
}

func rationale(t *task.Task, b Breakdown) string {
	reasons := []string{b.Urgency.Note}
	if t.Importance >= highImportance {
		reasons = append(reasons, RationaleImportant)
	}
	if b.BlockedCount > 0 {
		reasons = append(reasons, fmt.Sprintf("Blocks %d tasks", b.BlockedCount))
	}
	if t.EstimatedHours <= quickWinHours {
		reasons = append(reasons, RationaleQuickWin)
	}
	return strings.Join(reasons, ", ")
}

// round1 rounds to one decimal place, halves away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
