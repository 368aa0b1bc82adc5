package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/hibiken/asynq"
)

// IntegrityCheckJob runs ledger integrity checks and reports what they find.
type IntegrityCheckJob struct {
	Integrity portssvc.IntegritySvc
	Logger    *slog.Logger
}

// NewIntegrityCheckJob initialises the integrity check handler.
func NewIntegrityCheckJob(integrity portssvc.IntegritySvc, logger *slog.Logger) *IntegrityCheckJob {
	return &IntegrityCheckJob{Integrity: integrity, Logger: logger}
}

// Handle executes TaskIntegrityCheck. Findings are logged, not retried; only
// failures to run the check are returned.
func (j *IntegrityCheckJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Integrity == nil {
		return errors.New("integrity check: handler not configured")
	}
	var payload IntegrityCheckPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("integrity check: bad payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	start := time.Now()
	logger := j.logger().With(slog.String("company_id", payload.CompanyID))
	logger.Info("starting integrity check")

	reports, err := j.run(ctx, payload.CompanyID)
	if err != nil {
		logger.Error("integrity check failed", slog.String("error", err.Error()))
		return err
	}

	unhealthy := 0
	for _, r := range reports {
		if r.Healthy() {
			continue
		}
		unhealthy++
		logger.Warn("ledger integrity violation",
			slog.String("company_id", r.CompanyID),
			slog.Any("unbalanced_entries", r.UnbalancedEntries),
			slog.Any("entries_on_groups", r.EntriesOnGroups),
			slog.Int("cache_drift", len(r.CacheDrift)),
		)
	}
	logger.Info("completed integrity check",
		slog.Int("companies", len(reports)),
		slog.Int("unhealthy", unhealthy),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *IntegrityCheckJob) run(ctx context.Context, companyID string) ([]domain.IntegrityReport, error) {
	if companyID == "" {
		return j.Integrity.CheckAll(ctx)
	}
	report, err := j.Integrity.Check(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return []domain.IntegrityReport{*report}, nil
}

func (j *IntegrityCheckJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskIntegrityCheck))
	}
	return slog.Default().With(slog.String("job", TaskIntegrityCheck))
}
