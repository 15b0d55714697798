package usecase

import (
	"context"

	"attn/internal/modules/session/dto"
	sessionin "attn/internal/modules/session/port/in"
	"attn/internal/modules/session/service"
)

type Interactor struct {
	svc *service.SessionService
}

func NewInteractor(svc *service.SessionService) sessionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Start(ctx context.Context) (dto.Session, error) {
	session, err := i.svc.Start(ctx)
	if err != nil {
		return dto.Session{}, err
	}
	return dto.SessionFromDomain(session), nil
}

func (i *Interactor) RecordDistraction(ctx context.Context, sessionID string) (dto.Distraction, error) {
	event, err := i.svc.RecordDistraction(ctx, sessionID)
	if err != nil {
		return dto.Distraction{}, err
	}
	return dto.Distraction{ID: event.ID, SessionID: event.SessionID, CreatedAt: event.At}, nil
}

func (i *Interactor) End(ctx context.Context, sessionID string) (dto.EndOutput, error) {
	session, err := i.svc.End(ctx, sessionID)
	if err != nil {
		return dto.EndOutput{}, err
	}
	return dto.EndOutput{
		Session: dto.SessionFromDomain(session),
		Summary: dto.SummaryFromDomain(session.Summarize(session.EndedAt)),
	}, nil
}

func (i *Interactor) Summary(ctx context.Context, sessionID string) (dto.Summary, error) {
	_, sum, err := i.svc.Summary(ctx, sessionID)
	if err != nil {
		return dto.Summary{}, err
	}
	return dto.SummaryFromDomain(sum), nil
}

func (i *Interactor) Active(ctx context.Context) (dto.Session, error) {
	session, err := i.svc.Active(ctx)
	if err != nil {
		return dto.Session{}, err
	}
	return dto.SessionFromDomain(session), nil
}
