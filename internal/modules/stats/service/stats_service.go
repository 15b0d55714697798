package service

import (
	"context"
	"fmt"
	"time"

	sessiondomain "attn/internal/modules/session/domain"
	"attn/internal/modules/stats/domain"
	statsout "attn/internal/modules/stats/port/out"
	"attn/internal/platform/clock"
)

const trendDays = 7

// minElapsed guards the per-hour rate right after midnight.
const minElapsed = time.Second

// StatsService derives daily rollups from stored sessions. Days are
// bucketed in the clock's zone.
type StatsService struct {
	clock clock.Clock
	store statsout.RangeStore
}

func NewStatsService(clk clock.Clock, store statsout.RangeStore) *StatsService {
	return &StatsService{clock: clk, store: store}
}

// Overview builds the dashboard in one range query: the trailing seven
// days including today, bucketed by local day, zero-filled, oldest first.
func (s *StatsService) Overview(ctx context.Context) (domain.Overview, error) {
	loc := s.clock.Location()
	now := s.clock.Now()
	today := midnight(now.In(loc))
	oldest := today.AddDate(0, 0, -(trendDays - 1))

	sessions, err := s.store.StartedBetween(ctx, oldest, today.AddDate(0, 0, 1))
	if err != nil {
		return domain.Overview{}, fmt.Errorf("load sessions for stats: %w", err)
	}

	byDay := make(map[int64][]sessiondomain.Session)
	for _, session := range sessions {
		day := midnight(session.StartedAt.In(loc))
		byDay[day.Unix()] = append(byDay[day.Unix()], session)
	}

	trend := make([]domain.DailyRollup, 0, trendDays)
	for i := 0; i < trendDays; i++ {
		day := oldest.AddDate(0, 0, i)
		trend = append(trend, domain.Rollup(day, byDay[day.Unix()], now))
	}

	todayRollup := trend[len(trend)-1]
	return domain.Overview{
		Today:               todayRollup,
		DistractionsPerHour: perHour(todayRollup.TotalDistractions, now.Sub(today)),
		Trend:               trend,
	}, nil
}

// DailyRollup aggregates a single calendar day containing date.
func (s *StatsService) DailyRollup(ctx context.Context, date time.Time) (domain.DailyRollup, error) {
	day := midnight(date.In(s.clock.Location()))
	sessions, err := s.store.StartedBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return domain.DailyRollup{}, fmt.Errorf("load sessions for rollup: %w", err)
	}
	return domain.Rollup(day, sessions, s.clock.Now()), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func perHour(count int, elapsed time.Duration) float64 {
	if elapsed < minElapsed {
		return 0
	}
	return float64(count) / elapsed.Hours()
}
