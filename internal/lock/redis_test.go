package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/fitcoach/internal/logger"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisLocker(t *testing.T, ttl time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	l, err := NewRedisLocker(mr.Addr(), ttl, logger.Nop())
	if err != nil {
		t.Fatalf("NewRedisLocker: %v", err)
	}
	l.retry = 5 * time.Millisecond
	t.Cleanup(func() { _ = l.Close() })
	return l, mr
}

func TestRedisLockerExcludesUntilUnlock(t *testing.T) {
	t.Parallel()
	l, mr := newTestRedisLocker(t, time.Minute)
	key := redisKeyPrefix + "workout:c1"

	unlock, err := l.Lock(context.Background(), "workout:c1")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if !mr.Exists(key) {
		t.Fatalf("expected %s to be set while held", key)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("ttl: got=%v want in (0, 1m]", ttl)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, "workout:c1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("second Lock: got=%v want=%v", err, context.DeadlineExceeded)
	}

	// Other keys are independent.
	other, err := l.Lock(context.Background(), "workout:c2")
	if err != nil {
		t.Fatalf("Lock other key: %v", err)
	}
	other()

	unlock()
	unlock()
	if mr.Exists(key) {
		t.Fatalf("expected %s to be released", key)
	}

	again, err := l.Lock(context.Background(), "workout:c1")
	if err != nil {
		t.Fatalf("Lock after unlock: %v", err)
	}
	again()
}

func TestRedisLockerWaiterAcquiresAfterRelease(t *testing.T) {
	t.Parallel()
	l, _ := newTestRedisLocker(t, time.Minute)

	unlock, err := l.Lock(context.Background(), "meal-plan:c1")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	acquired := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		u, err := l.Lock(ctx, "meal-plan:c1")
		if err == nil {
			u()
		}
		acquired <- err
	}()

	select {
	case err := <-acquired:
		t.Fatalf("waiter got the lock while held: err=%v", err)
	case <-time.After(30 * time.Millisecond):
	}
	unlock()
	if err := <-acquired; err != nil {
		t.Fatalf("waiter: %v", err)
	}
}

func TestRedisLockerUnlockKeepsForeignToken(t *testing.T) {
	t.Parallel()
	l, mr := newTestRedisLocker(t, time.Second)
	key := redisKeyPrefix + "meal-plan:c1"

	unlock, err := l.Lock(context.Background(), "meal-plan:c1")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	// The lock expires and another instance takes it.
	mr.FastForward(2 * time.Second)
	if mr.Exists(key) {
		t.Fatalf("expected %s to expire", key)
	}
	if err := mr.Set(key, "someone-else"); err != nil {
		t.Fatalf("seed foreign holder: %v", err)
	}

	unlock()
	got, err := mr.Get(key)
	if err != nil || got != "someone-else" {
		t.Fatalf("foreign holder: got=%q err=%v want=%q", got, err, "someone-else")
	}
}

func TestNewRedisLockerValidatesArgs(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisLocker("", time.Second, logger.Nop()); err == nil {
		t.Fatalf("empty addr: expected error")
	}
	if _, err := NewRedisLocker("127.0.0.1:6379", 0, logger.Nop()); err == nil {
		t.Fatalf("zero ttl: expected error")
	}
}
