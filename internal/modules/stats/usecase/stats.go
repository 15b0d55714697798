package usecase

import (
	"context"

	"attn/internal/modules/stats/dto"
	statsin "attn/internal/modules/stats/port/in"
	"attn/internal/modules/stats/service"
)

type Interactor struct {
	svc *service.StatsService
}

func NewInteractor(svc *service.StatsService) statsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Overview(ctx context.Context) (dto.Stats, error) {
	overview, err := i.svc.Overview(ctx)
	if err != nil {
		return dto.Stats{}, err
	}
	return dto.StatsFromDomain(overview), nil
}
