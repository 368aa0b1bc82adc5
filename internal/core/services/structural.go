package services

import (
	"context"
	"log/slog"
	"sort"

	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
)

// structuralRunner serializes mutations of the account tree. Each attempt
// recomputes its lock keys, takes them all-or-nothing and runs the mutation.
type structuralRunner struct {
	BaseService
	locker  portsrepo.SubtreeLocker
	retry   RetryPolicy
	metrics portssvc.MetricsRecorder
}

func (r *structuralRunner) run(ctx context.Context, companyID, operation string, keys func(ctx context.Context) ([]string, error), fn func(ctx context.Context) error) error {
	onRetry := func(attempt int, err error) {
		r.metrics.ObserveRetry(operation)
		r.LogWarn(ctx, "Structural mutation collided, retrying",
			slog.String("operation", operation),
			slog.String("company_id", companyID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
	}
	return r.retry.Do(ctx, onRetry, func(ctx context.Context) error {
		lockKeys, err := keys(ctx)
		if err != nil {
			return err
		}
		release, err := r.locker.TryLock(ctx, companyID, uniqueSorted(lockKeys))
		if err != nil {
			return err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				r.LogWarn(ctx, "Failed to release structural lock",
					slog.String("operation", operation),
					slog.String("company_id", companyID),
					slog.String("error", err.Error()))
			}
		}()
		return fn(ctx)
	})
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// subtreeIDs returns rootID and all of its descendants.
func subtreeIDs(ctx context.Context, reader portsrepo.AccountReader, companyID, rootID string) ([]string, error) {
	ids := []string{rootID}
	seen := map[string]bool{rootID: true}
	for i := 0; i < len(ids); i++ {
		children, err := reader.ListChildren(ctx, companyID, ids[i])
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			if !seen[c.AccountID] {
				seen[c.AccountID] = true
				ids = append(ids, c.AccountID)
			}
		}
	}
	return ids, nil
}
