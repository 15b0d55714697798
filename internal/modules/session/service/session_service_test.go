package service_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"attn/internal/modules/session/domain"
	"attn/internal/modules/session/service"
	apperrors "attn/internal/platform/errors"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

func (f *fakeClock) Location() *time.Location { return time.UTC }

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return "id-" + string(rune('0'+s.n))
}

// memStore mirrors the sqlite adapter's contract closely enough for
// lifecycle tests: conditional append/end, newest-active lookup.
type memStore struct {
	sessions map[string]*domain.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*domain.Session)}
}

func (m *memStore) Create(_ context.Context, s domain.Session) error {
	for _, existing := range m.sessions {
		if existing.Active() {
			return apperrors.ErrActiveSessionExists
		}
	}
	cp := s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (domain.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return domain.Session{}, apperrors.ErrSessionNotFound
	}
	return *s, nil
}

func (m *memStore) Active(_ context.Context) (domain.Session, error) {
	var newest *domain.Session
	for _, s := range m.sessions {
		if s.Active() && (newest == nil || s.StartedAt.After(newest.StartedAt)) {
			newest = s
		}
	}
	if newest == nil {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	return *newest, nil
}

func (m *memStore) AppendEvent(_ context.Context, e domain.DistractionEvent) error {
	s, ok := m.sessions[e.SessionID]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	if !s.Active() {
		return apperrors.ErrSessionEnded
	}
	s.Events = append(s.Events, e)
	return nil
}

func (m *memStore) End(_ context.Context, id string, at time.Time) error {
	s, ok := m.sessions[id]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	if !s.Active() {
		return apperrors.ErrSessionEnded
	}
	s.EndedAt = at
	return nil
}

func (m *memStore) StartedBetween(_ context.Context, from, to time.Time) ([]domain.Session, error) {
	var out []domain.Session
	for _, s := range m.sessions {
		if !s.StartedAt.Before(from) && s.StartedAt.Before(to) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func ts(min int) time.Time {
	return time.Date(2026, 3, 10, 9, min, 0, 0, time.UTC)
}

func TestStartConflictsWithActiveSession(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := service.NewSessionService(&fakeClock{values: []time.Time{ts(0), ts(1)}}, &seqID{}, store)

	first, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	if first.ID == "" || !first.Active() {
		t.Fatalf("expected active session with id, got %+v", first)
	}
	if _, err := svc.Start(context.Background()); !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestEndIsIrreversibleAndDistractionsRejectedAfter(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := service.NewSessionService(&fakeClock{values: []time.Time{ts(0), ts(30)}}, &seqID{}, store)

	s, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	ended, err := svc.End(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.Active() {
		t.Fatal("session must be ended")
	}
	if _, err := svc.End(context.Background(), s.ID); !errors.Is(err, apperrors.ErrSessionEnded) {
		t.Fatalf("second end must fail with session ended, got %v", err)
	}
	if _, err := svc.RecordDistraction(context.Background(), s.ID); !errors.Is(err, apperrors.ErrSessionEnded) {
		t.Fatalf("distraction after end must fail, got %v", err)
	}
}

func TestLifecycleErrorsForUnknownSession(t *testing.T) {
	t.Parallel()
	svc := service.NewSessionService(&fakeClock{values: []time.Time{ts(0)}}, &seqID{}, newMemStore())

	if _, err := svc.RecordDistraction(context.Background(), "ghost"); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.End(context.Background(), "ghost"); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, _, err := svc.Summary(context.Background(), "ghost"); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSummaryOfRunningSessionUsesNow(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	clk := &fakeClock{values: []time.Time{ts(0), ts(2), ts(10)}}
	svc := service.NewSessionService(clk, &seqID{}, store)

	s, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.RecordDistraction(context.Background(), s.ID); err != nil {
		t.Fatalf("distract: %v", err)
	}
	_, sum, err := svc.Summary(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Duration != 10*time.Minute {
		t.Fatalf("running duration should reach now, got %v", sum.Duration)
	}
	// gaps: 2m to the distraction, 8m since
	if sum.LongestStreak != 8*time.Minute {
		t.Fatalf("longest streak: got %v", sum.LongestStreak)
	}
}

func TestActiveHidesSessionsOlderThanMaxAge(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	started := ts(0)
	clk := &fakeClock{values: []time.Time{started, started.Add(25 * time.Hour)}}
	svc := service.NewSessionService(clk, &seqID{}, store)

	if _, err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Active(context.Background()); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("25h-old session must not be reported active, got %v", err)
	}
}
