package dto

import (
	"time"

	"attn/internal/modules/session/domain"
)

// Wire shapes shared by the HTTP handlers and the terminal client.

type Session struct {
	ID               string     `json:"id"`
	StartedAt        time.Time  `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	DistractionCount int        `json:"distraction_count"`
}

type Distraction struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Summary struct {
	DurationSeconds      float64 `json:"duration_seconds"`
	DistractionCount     int     `json:"distraction_count"`
	AverageStreakSeconds float64 `json:"average_streak_seconds"`
	LongestStreakSeconds float64 `json:"longest_streak_seconds"`
}

// EndOutput is the PATCH response: the ended session with its summary
// embedded, so ending and summarizing is one round-trip.
type EndOutput struct {
	Session
	Summary Summary `json:"summary"`
}

func SessionFromDomain(s domain.Session) Session {
	out := Session{
		ID:               s.ID,
		StartedAt:        s.StartedAt,
		DistractionCount: len(s.Events),
	}
	if !s.Active() {
		ended := s.EndedAt
		out.EndedAt = &ended
	}
	return out
}

func SummaryFromDomain(sum domain.Summary) Summary {
	return Summary{
		DurationSeconds:      sum.Duration.Seconds(),
		DistractionCount:     sum.DistractionCount,
		AverageStreakSeconds: sum.AverageStreak.Seconds(),
		LongestStreakSeconds: sum.LongestStreak.Seconds(),
	}
}
