package services

import (
	"context"
	"log/slog"

	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
)

// balanceInvalidator bumps cached balance versions once a ledger change has
// committed. Failures are retried; a failure that outlives the retries leaves
// the old sums readable until the cache TTL expires and the integrity check
// reports them as drift.
type balanceInvalidator struct {
	BaseService
	cache   portsrepo.BalanceCache
	retry   RetryPolicy
	metrics portssvc.MetricsRecorder
}

func (v *balanceInvalidator) invalidate(ctx context.Context, operation, companyID string, accountIDs ...string) {
	if len(accountIDs) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	onRetry := func(attempt int, err error) {
		v.metrics.ObserveRetry(operation)
		v.LogWarn(ctx, "Balance cache invalidation failed, retrying",
			slog.String("operation", operation),
			slog.String("company_id", companyID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
	}
	err := v.retry.DoAny(ctx, onRetry, func(ctx context.Context) error {
		return v.cache.Invalidate(ctx, companyID, accountIDs...)
	})
	if err != nil {
		v.LogError(ctx, err, "Balance cache left stale until TTL expiry",
			slog.String("operation", operation),
			slog.String("company_id", companyID),
			slog.Any("account_ids", accountIDs))
	}
}
