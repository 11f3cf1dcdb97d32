// Package urgency measures how soon a task is due.
//
// Dates are calendar dates: callers pass values at midnight (see task.Date)
// and the time of day is ignored.
package urgency

import (
	"fmt"
	"time"
)

const (
	overdueBase     = 100.0
	overduePerDay   = 10.0
	dueTodayScore   = 95.0
	decayNumerator  = 100.0
	secondsPerDay   = 24 * 60 * 60
	daysPerWeek     = 7
	weekdaysPerWeek = 5
)

const (
	NoteOverdue  = "Overdue"
	NoteDueToday = "Due Today"
)

// Assessment is the urgency sub-score for one due date.
type Assessment struct {
	BusinessDays int
	Score        float64
	Note         string
}

// CountBusinessDays counts the weekdays in (start, end]. The start day itself
// is never counted; start after end yields 0.
func CountBusinessDays(start, end time.Time) int {
	total := DaysBetween(start, end)
	if total <= 0 {
		return 0
	}
	// Every run of seven consecutive days holds exactly five weekdays.
	weeks := total / daysPerWeek
	count := weeks * weekdaysPerWeek
	d := day(start).AddDate(0, 0, weeks*daysPerWeek)
	for range total % daysPerWeek {
		d = d.AddDate(0, 0, 1)
		if isWeekday(d) {
			count++
		}
	}
	return count
}

// Assess computes the urgency sub-score of a task due on due, as seen on today.
func Assess(today, due time.Time) Assessment {
	today, due = day(today), day(due)
	days := CountBusinessDays(today, due)

	switch {
	case due.Before(today):
		overdue := DaysBetween(due, today)
		return Assessment{
			BusinessDays: days,
			Score:        overdueBase + overduePerDay*float64(overdue),
			Note:         NoteOverdue,
		}
	case days == 0:
		return Assessment{Score: dueTodayScore, Note: NoteDueToday}
	default:
		return Assessment{
			BusinessDays: days,
			Score:        decayNumerator / float64(days+1),
			Note:         fmt.Sprintf("%d days left", days),
		}
	}
}

// DaysBetween returns the number of calendar days from a to b (negative when b
// precedes a).
func DaysBetween(a, b time.Time) int {
	return int((day(b).Unix() - day(a).Unix()) / secondsPerDay)
}

func isWeekday(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
