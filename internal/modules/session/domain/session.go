package domain

import "time"

// Session is a single focus block. EndedAt is zero while the session is
// running. Events are ordered by timestamp; the order matters for the
// streak computation.
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Events    []DistractionEvent
}

// DistractionEvent marks one moment of distraction inside a session. Its
// timestamp lies strictly between the session's start and end.
type DistractionEvent struct {
	ID        string
	SessionID string
	At        time.Time
}

// Summary is derived on demand and never stored.
type Summary struct {
	Duration         time.Duration
	DistractionCount int
	AverageStreak    time.Duration
	LongestStreak    time.Duration
}

func (s Session) Active() bool {
	return s.EndedAt.IsZero()
}

// Summarize computes the session summary. For a running session the
// current time stands in for the end marker, so a summary is always
// available. The longest streak is the widest gap in the marker sequence
// [started_at, e1..en, end marker]; with no events it equals the duration.
func (s Session) Summarize(now time.Time) Summary {
	end := s.EndedAt
	if s.Active() {
		end = now
	}
	duration := end.Sub(s.StartedAt)
	if duration < 0 {
		duration = 0
	}

	longest := time.Duration(0)
	prev := s.StartedAt
	for _, e := range s.Events {
		if gap := e.At.Sub(prev); gap > longest {
			longest = gap
		}
		prev = e.At
	}
	if gap := end.Sub(prev); gap > longest {
		longest = gap
	}
	if longest < 0 {
		longest = 0
	}

	streaks := len(s.Events) + 1
	return Summary{
		Duration:         duration,
		DistractionCount: len(s.Events),
		AverageStreak:    duration / time.Duration(streaks),
		LongestStreak:    longest,
	}
}
