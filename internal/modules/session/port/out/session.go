package out

import (
	"context"
	"time"

	"attn/internal/modules/session/domain"
)

// Store is the durable session store. Mutations for one session id must be
// serialized by the implementation: AppendEvent and End are rejected with
// apperrors.ErrSessionEnded when the session has ended, even under
// concurrent callers, and End can succeed at most once.
type Store interface {
	// Create rejects a second unended session with
	// apperrors.ErrActiveSessionExists, even under concurrent callers.
	Create(ctx context.Context, session domain.Session) error
	// Get returns the session with its events ordered by timestamp.
	Get(ctx context.Context, id string) (domain.Session, error)
	// Active returns the most recently started unended session.
	Active(ctx context.Context) (domain.Session, error)
	AppendEvent(ctx context.Context, event domain.DistractionEvent) error
	End(ctx context.Context, id string, at time.Time) error
	// StartedBetween returns sessions with started_at in [from, to),
	// events included, for stats aggregation.
	StartedBetween(ctx context.Context, from, to time.Time) ([]domain.Session, error)
}
