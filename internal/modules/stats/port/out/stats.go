package out

import (
	"context"
	"time"

	sessiondomain "attn/internal/modules/session/domain"
)

// RangeStore is the read side of the session store used for aggregation.
// The sqlite session store satisfies it directly.
type RangeStore interface {
	// StartedBetween returns sessions with started_at in [from, to),
	// events included, ordered by started_at.
	StartedBetween(ctx context.Context, from, to time.Time) ([]sessiondomain.Session, error)
}
