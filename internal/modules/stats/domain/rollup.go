package domain

import (
	"time"

	sessiondomain "attn/internal/modules/session/domain"
)

// DailyRollup aggregates the sessions whose started_at falls on one
// calendar day in the reporting zone. Date is that day's midnight.
type DailyRollup struct {
	Date              time.Time
	SessionCount      int
	TotalDistractions int
	LongestStreak     time.Duration
}

// Overview is the dashboard payload: today's rollup with the
// distractions-per-hour rate, plus the trailing trend, oldest first.
type Overview struct {
	Today               DailyRollup
	DistractionsPerHour float64
	Trend               []DailyRollup
}

// Rollup aggregates one day's sessions. day is the day's midnight in the
// reporting zone. Unended sessions always count toward the session and
// distraction totals, but their streak is measured against now and so
// only contributes while the day is still ongoing.
func Rollup(day time.Time, sessions []sessiondomain.Session, now time.Time) DailyRollup {
	r := DailyRollup{Date: day}
	dayOngoing := !now.Before(day) && now.Before(day.AddDate(0, 0, 1))
	for _, s := range sessions {
		r.SessionCount++
		r.TotalDistractions += len(s.Events)
		if s.Active() && !dayOngoing {
			continue
		}
		if streak := s.Summarize(now).LongestStreak; streak > r.LongestStreak {
			r.LongestStreak = streak
		}
	}
	return r
}
