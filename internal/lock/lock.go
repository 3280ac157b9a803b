// Package lock serializes work per key, e.g. plan generation per client.
package lock

import "context"

// Locker hands out exclusive, context-bounded locks by key.
// The returned unlock func is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
