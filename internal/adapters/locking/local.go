// Package locking implements the SubtreeLocker port for a single process and
// for a fleet sharing Redis.
package locking

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

// LocalLocker holds subtree locks in process memory.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalLocker creates an empty in-process locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

var _ portsrepo.SubtreeLocker = (*LocalLocker)(nil)

func lockKey(companyID, key string) string {
	return companyID + ":" + key
}

// TryLock takes every key or none.
func (l *LocalLocker) TryLock(ctx context.Context, companyID string, keys []string) (portsrepo.ReleaseFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range keys {
		if _, busy := l.held[lockKey(companyID, k)]; busy {
			return nil, fmt.Errorf("%w: %s is locked by another structural change", apperrors.ErrConcurrency, k)
		}
	}
	for _, k := range keys {
		l.held[lockKey(companyID, k)] = struct{}{}
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			for _, k := range keys {
				delete(l.held, lockKey(companyID, k))
			}
		})
		return nil
	}, nil
}
