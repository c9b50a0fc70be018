package lock

import (
	"context"
	"sync"
	"time"
)

var (
	lockMap sync.Map
)

// WithDelay serializes access to one resource key across goroutines of
// this process. It spins until the key is free, the wait expires or the
// context is done; safeCode runs only when the key was acquired.
// Used with per-document keys to keep concurrent transitions from
// racing on the same record.
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	isLocked := false
	isTimeout := time.After(wait)
	for {
		if _, loaded := lockMap.LoadOrStore(key, true); !loaded {
			isLocked = true
			break
		}
		select {
		case <-isTimeout:
			return false, nil
		case <-ctx.Done():
			return false, nil
		default:
			time.Sleep(50 * time.Millisecond)
		}
	}
	if isLocked {
		defer lockMap.Delete(key)
		return true, safeCode()
	}
	return false, nil
}

// ApprovalKey is the lock key for one approval document.
func ApprovalKey(id string) string {
	return "approval:" + id
}

// DocumentKey is the lock key for one generic document.
func DocumentKey(id string) string {
	return "document:" + id
}
