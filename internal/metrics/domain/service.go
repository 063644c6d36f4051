package domain

import "context"

// Snapshotter produces a fresh host snapshot.
// Implementations never fail; unreadable sources degrade to zero values.
type Snapshotter interface {
	Snapshot(ctx context.Context) Snapshot
}
