package in

import (
	"context"

	statsdto "attn/internal/modules/stats/dto"
	statsin "attn/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Overview(ctx context.Context) (statsdto.Stats, error) {
	return h.usecase.Overview(ctx)
}
