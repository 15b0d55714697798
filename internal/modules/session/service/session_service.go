package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attn/internal/modules/session/domain"
	sessionout "attn/internal/modules/session/port/out"
	"attn/internal/platform/clock"
	apperrors "attn/internal/platform/errors"
	"attn/internal/platform/id"
)

// activeMaxAge hides forgotten sessions from Active so a stale session is
// never restored into a client. The session itself stays endable.
const activeMaxAge = 24 * time.Hour

// SessionService enforces the session lifecycle: at most one active
// session, distractions only while running, ending is irreversible.
type SessionService struct {
	clock clock.Clock
	idGen id.Generator
	store sessionout.Store
}

func NewSessionService(clk clock.Clock, idGen id.Generator, store sessionout.Store) *SessionService {
	return &SessionService{clock: clk, idGen: idGen, store: store}
}

func (s *SessionService) Start(ctx context.Context) (domain.Session, error) {
	_, err := s.store.Active(ctx)
	if err == nil {
		return domain.Session{}, apperrors.ErrActiveSessionExists
	}
	if !errors.Is(err, apperrors.ErrNoActiveSession) {
		return domain.Session{}, fmt.Errorf("check active session: %w", err)
	}

	session := domain.Session{
		ID:        s.idGen.New(),
		StartedAt: s.clock.Now().Truncate(time.Second),
	}
	if err := s.store.Create(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *SessionService) RecordDistraction(ctx context.Context, sessionID string) (domain.DistractionEvent, error) {
	event := domain.DistractionEvent{
		ID:        s.idGen.New(),
		SessionID: sessionID,
		At:        s.clock.Now().Truncate(time.Second),
	}
	// The store appends conditionally on the session still being active,
	// which keeps retries from corrupting an ended session's event list.
	if err := s.store.AppendEvent(ctx, event); err != nil {
		return domain.DistractionEvent{}, err
	}
	return event, nil
}

func (s *SessionService) End(ctx context.Context, sessionID string) (domain.Session, error) {
	endedAt := s.clock.Now().Truncate(time.Second)
	if err := s.store.End(ctx, sessionID, endedAt); err != nil {
		return domain.Session{}, err
	}
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("reload ended session: %w", err)
	}
	return session, nil
}

func (s *SessionService) Summary(ctx context.Context, sessionID string) (domain.Session, domain.Summary, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return domain.Session{}, domain.Summary{}, err
	}
	return session, session.Summarize(s.clock.Now()), nil
}

func (s *SessionService) Active(ctx context.Context) (domain.Session, error) {
	session, err := s.store.Active(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if s.clock.Now().Sub(session.StartedAt) > activeMaxAge {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	return session, nil
}
