package out_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"attn/internal/modules/session/adapter/out"
	"attn/internal/modules/session/domain"
	apperrors "attn/internal/platform/errors"
)

func newStore(t *testing.T) *out.SQLiteSessionStore {
	t.Helper()
	store, err := out.NewSQLiteSessionStore(filepath.Join(t.TempDir(), "attn.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func at(min int) time.Time {
	return time.Date(2026, 3, 10, 9, min, 0, 0, time.UTC)
}

func TestCreateGetRoundTrip(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	session := domain.Session{ID: "s1", StartedAt: at(0)}
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.StartedAt.Equal(at(0)) || !got.Active() || len(got.Events) != 0 {
		t.Fatalf("unexpected session: %+v", got)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateRejectsSecondActiveSession(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, domain.Session{ID: "s1", StartedAt: at(0)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// A racing start that passed the service's active check still must
	// not persist a second active session.
	if err := store.Create(ctx, domain.Session{ID: "s2", StartedAt: at(1)}); !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("second create must conflict, got %v", err)
	}
	if _, err := store.Get(ctx, "s2"); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("conflicting session must not be stored, got %v", err)
	}

	if err := store.End(ctx, "s1", at(5)); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := store.Create(ctx, domain.Session{ID: "s2", StartedAt: at(6)}); err != nil {
		t.Fatalf("create after end: %v", err)
	}
}

func TestActiveReturnsNewestUnended(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.Active(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}

	if err := store.Create(ctx, domain.Session{ID: "old", StartedAt: at(0)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.End(ctx, "old", at(5)); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := store.Create(ctx, domain.Session{ID: "new", StartedAt: at(10)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	active, err := store.Active(ctx)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.ID != "new" {
		t.Fatalf("expected newest unended session, got %q", active.ID)
	}
}

func TestEndIsCompareAndSet(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, domain.Session{ID: "s1", StartedAt: at(0)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.End(ctx, "s1", at(30)); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := store.End(ctx, "s1", at(31)); !errors.Is(err, apperrors.ErrSessionEnded) {
		t.Fatalf("second end must fail with session ended, got %v", err)
	}
	if err := store.End(ctx, "ghost", at(31)); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.EndedAt.Equal(at(30)) {
		t.Fatalf("ended_at must keep the first end time, got %v", got.EndedAt)
	}
}

func TestAppendEventOnlyWhileActive(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, domain.Session{ID: "s1", StartedAt: at(0)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.AppendEvent(ctx, domain.DistractionEvent{ID: "d1", SessionID: "s1", At: at(1)}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.AppendEvent(ctx, domain.DistractionEvent{ID: "d2", SessionID: "s1", At: at(2)}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.End(ctx, "s1", at(3)); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := store.AppendEvent(ctx, domain.DistractionEvent{ID: "d3", SessionID: "s1", At: at(4)}); !errors.Is(err, apperrors.ErrSessionEnded) {
		t.Fatalf("append after end must fail, got %v", err)
	}
	if err := store.AppendEvent(ctx, domain.DistractionEvent{ID: "d4", SessionID: "ghost", At: at(4)}); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Events) != 2 || got.Events[0].ID != "d1" || got.Events[1].ID != "d2" {
		t.Fatalf("expected two ordered events, got %+v", got.Events)
	}
}

func TestStartedBetweenIsHalfOpenAndOrdered(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		if err := store.Create(ctx, domain.Session{ID: id, StartedAt: at(i * 10)}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
		if id == "b" {
			if err := store.AppendEvent(ctx, domain.DistractionEvent{ID: "d1", SessionID: "b", At: at(11)}); err != nil {
				t.Fatalf("append: %v", err)
			}
		}
		if err := store.End(ctx, id, at(i*10+5)); err != nil {
			t.Fatalf("end %s: %v", id, err)
		}
	}

	sessions, err := store.StartedBetween(ctx, at(0), at(20))
	if err != nil {
		t.Fatalf("started between: %v", err)
	}
	if len(sessions) != 2 || sessions[0].ID != "a" || sessions[1].ID != "b" {
		t.Fatalf("expected [a b], got %+v", sessions)
	}
	if len(sessions[1].Events) != 1 {
		t.Fatalf("events must be loaded for range queries, got %+v", sessions[1].Events)
	}

	empty, err := store.StartedBetween(ctx, at(40), at(50))
	if err != nil {
		t.Fatalf("started between: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty range, got %+v", empty)
	}
}
