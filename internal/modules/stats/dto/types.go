package dto

import (
	"attn/internal/modules/stats/domain"
)

const dateLayout = "02-01-2006"

type DailyRollup struct {
	Date                 string  `json:"date"`
	SessionCount         int     `json:"session_count"`
	TotalDistractions    int     `json:"total_distractions"`
	LongestStreakSeconds float64 `json:"longest_streak_seconds"`
}

type Stats struct {
	TodaySessions             int           `json:"today_sessions"`
	TodayDistractionsPerHour  float64       `json:"today_distractions_per_hour"`
	TodayLongestStreakSeconds float64       `json:"today_longest_streak_seconds"`
	Last7Days                 []DailyRollup `json:"last_7_days"`
}

func RollupFromDomain(r domain.DailyRollup) DailyRollup {
	return DailyRollup{
		Date:                 r.Date.Format(dateLayout),
		SessionCount:         r.SessionCount,
		TotalDistractions:    r.TotalDistractions,
		LongestStreakSeconds: r.LongestStreak.Seconds(),
	}
}

func StatsFromDomain(o domain.Overview) Stats {
	trend := make([]DailyRollup, 0, len(o.Trend))
	for _, r := range o.Trend {
		trend = append(trend, RollupFromDomain(r))
	}
	return Stats{
		TodaySessions:             o.Today.SessionCount,
		TodayDistractionsPerHour:  o.DistractionsPerHour,
		TodayLongestStreakSeconds: o.Today.LongestStreak.Seconds(),
		Last7Days:                 trend,
	}
}
