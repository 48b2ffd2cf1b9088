package budgetstore

import (
	"context"
	"time"
)

func OpenAt(ctx context.Context, actions Actions, persister Persister, now func() time.Time) *Store {
	return open(ctx, actions, persister, now)
}
