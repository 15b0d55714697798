package in

import (
	"context"

	sessiondto "attn/internal/modules/session/dto"
	sessionin "attn/internal/modules/session/port/in"
)

// CLIHandler serves the one-shot `attn session ...` commands against a
// local store, without going through the HTTP server.
type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context) (sessiondto.Session, error) {
	return h.usecase.Start(ctx)
}

func (h CLIHandler) Distract(ctx context.Context) (sessiondto.Distraction, error) {
	active, err := h.usecase.Active(ctx)
	if err != nil {
		return sessiondto.Distraction{}, err
	}
	return h.usecase.RecordDistraction(ctx, active.ID)
}

func (h CLIHandler) End(ctx context.Context) (sessiondto.EndOutput, error) {
	active, err := h.usecase.Active(ctx)
	if err != nil {
		return sessiondto.EndOutput{}, err
	}
	return h.usecase.End(ctx, active.ID)
}

func (h CLIHandler) Summary(ctx context.Context, sessionID string) (sessiondto.Summary, error) {
	return h.usecase.Summary(ctx, sessionID)
}

func (h CLIHandler) Active(ctx context.Context) (sessiondto.Session, error) {
	return h.usecase.Active(ctx)
}
