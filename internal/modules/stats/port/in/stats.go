package in

import (
	"context"

	"attn/internal/modules/stats/dto"
)

type Usecase interface {
	Overview(ctx context.Context) (dto.Stats, error)
}
