package services

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// FiscalCalendarSvc answers whether dates are open for posting.
type FiscalCalendarSvc interface {
	// IsPostable reports whether date resolves to an open period of the company.
	IsPostable(ctx context.Context, companyID string, date time.Time) (bool, error)

	// PeriodFor returns the period containing date, or ErrNotFound.
	PeriodFor(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error)
}
