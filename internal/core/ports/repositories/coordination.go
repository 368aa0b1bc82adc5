package repositories

import (
	"context"

	"github.com/shopspring/decimal"
)

// ReleaseFunc releases locks acquired by a SubtreeLocker.
type ReleaseFunc func(ctx context.Context) error

// SubtreeLocker grants exclusive sections over sets of account keys within a company.
type SubtreeLocker interface {
	// TryLock acquires every key or none. It fails with ErrConcurrency when any
	// key is already held.
	TryLock(ctx context.Context, companyID string, keys []string) (ReleaseFunc, error)
}

// BalanceCache stores raw per-leaf net sums (debit minus credit) under a
// per-account version. Invalidate bumps the version.
type BalanceCache interface {
	Version(ctx context.Context, companyID, accountID string) (int64, error)
	Get(ctx context.Context, companyID, accountID string, version int64, asOfKey string) (decimal.Decimal, bool, error)
	Set(ctx context.Context, companyID, accountID string, version int64, asOfKey string, net decimal.Decimal) error
	Invalidate(ctx context.Context, companyID string, accountIDs ...string) error
}
