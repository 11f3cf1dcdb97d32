//nolint:testpackage // Tests require internal access for thorough testing
package urgency

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountBusinessDays(t *testing.T) {
	friday := date(2023, 11, 24)

	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"friday to tuesday skips weekend", friday, date(2023, 11, 28), 2},
		{"same day", friday, friday, 0},
		{"friday to sunday", friday, date(2023, 11, 26), 0},
		{"saturday to sunday", date(2023, 11, 25), date(2023, 11, 26), 0},
		{"sunday to monday", date(2023, 11, 26), date(2023, 11, 27), 1},
		{"two full weeks", friday, date(2023, 12, 8), 10},
		{"start after end", date(2023, 11, 28), friday, 0},
		{"across year end", date(2023, 12, 29), date(2024, 1, 2), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountBusinessDays(tt.start, tt.end); got != tt.want {
				t.Errorf("CountBusinessDays(%s, %s) = %d, want %d",
					tt.start.Format(time.DateOnly), tt.end.Format(time.DateOnly), got, tt.want)
			}
		})
	}
}

func TestCountBusinessDaysMatchesDayByDayCount(t *testing.T) {
	base := date(2024, 2, 20)
	for offset := range 14 {
		start := base.AddDate(0, 0, offset)
		for span := -3; span <= 40; span++ {
			end := start.AddDate(0, 0, span)

			want := 0
			for d := start.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
				if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
					want++
				}
			}

			got := CountBusinessDays(start, end)
			if got != want {
				t.Fatalf("CountBusinessDays(%s, %s) = %d, want %d",
					start.Format(time.DateOnly), end.Format(time.DateOnly), got, want)
			}
			if span > 0 && got > span {
				t.Fatalf("CountBusinessDays(%s, %s) = %d exceeds calendar span %d",
					start.Format(time.DateOnly), end.Format(time.DateOnly), got, span)
			}
		}
	}
}

func TestCountBusinessDaysIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2023, 11, 24, 23, 59, 0, 0, time.UTC)
	end := time.Date(2023, 11, 28, 0, 1, 0, 0, time.UTC)
	if got := CountBusinessDays(start, end); got != 2 {
		t.Errorf("CountBusinessDays = %d, want 2", got)
	}
}

func TestAssess(t *testing.T) {
	friday := date(2023, 11, 24)

	tests := []struct {
		name  string
		due   time.Time
		score float64
		note  string
		days  int
	}{
		{"overdue five days", date(2023, 11, 19), 150, NoteOverdue, 0},
		{"overdue one day", date(2023, 11, 23), 110, NoteOverdue, 0},
		{"due today", friday, 95, NoteDueToday, 0},
		{"due on the weekend", date(2023, 11, 26), 95, NoteDueToday, 0},
		{"due monday", date(2023, 11, 27), 50, "1 days left", 1},
		{"due in a week", date(2023, 12, 1), 100.0 / 6, "5 days left", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(friday, tt.due)
			if got.Score != tt.score {
				t.Errorf("Score = %v, want %v", got.Score, tt.score)
			}
			if got.Note != tt.note {
				t.Errorf("Note = %q, want %q", got.Note, tt.note)
			}
			if got.BusinessDays != tt.days {
				t.Errorf("BusinessDays = %d, want %d", got.BusinessDays, tt.days)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	if got := DaysBetween(date(2024, 2, 27), date(2024, 3, 1)); got != 3 {
		t.Errorf("DaysBetween across leap day = %d, want 3", got)
	}
	if got := DaysBetween(date(2024, 3, 1), date(2024, 2, 27)); got != -3 {
		t.Errorf("DaysBetween reversed = %d, want -3", got)
	}
	if got := DaysBetween(date(1, 1, 1), date(2001, 1, 1)); got != 730485 {
		t.Errorf("DaysBetween over two millennia = %d, want 730485", got)
	}
}
