package services

import (
	"context"

	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type nopMetrics struct{}

func (nopMetrics) ObservePosting(string)   {}
func (nopMetrics) ObserveRetry(string)     {}
func (nopMetrics) ObserveCacheLookup(bool) {}

type nopCache struct{}

func (nopCache) Version(context.Context, string, string) (int64, error) { return 0, nil }
func (nopCache) Get(context.Context, string, string, int64, string) (decimal.Decimal, bool, error) {
	return decimal.Zero, false, nil
}
func (nopCache) Set(context.Context, string, string, int64, string, decimal.Decimal) error {
	return nil
}
func (nopCache) Invalidate(context.Context, string, ...string) error { return nil }

var (
	_ portssvc.MetricsRecorder = nopMetrics{}
	_ portsrepo.BalanceCache   = nopCache{}
)
