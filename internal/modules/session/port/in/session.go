package in

import (
	"context"

	"attn/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context) (dto.Session, error)
	RecordDistraction(ctx context.Context, sessionID string) (dto.Distraction, error)
	End(ctx context.Context, sessionID string) (dto.EndOutput, error)
	Summary(ctx context.Context, sessionID string) (dto.Summary, error)
	Active(ctx context.Context) (dto.Session, error)
}
