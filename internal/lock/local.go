package lock

import (
	"context"
	"fmt"
	"sync"
)

// LocalLocker is an in-process Locker. It only serializes callers within one
// server instance; use RedisLocker when running several.
type LocalLocker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{entries: make(map[string]*entry)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	e := l.acquireRef(key)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.releaseRef(key, e)
		return nil, fmt.Errorf("lock %q: %w", key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.releaseRef(key, e)
		})
	}, nil
}

func (l *LocalLocker) acquireRef(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

// Entries are dropped once nobody holds or waits on them.
func (l *LocalLocker) releaseRef(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
