package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// FiscalReader defines read operations for the fiscal calendar
type FiscalReader interface {
	// FindPeriodsByDate returns every period of the company whose range contains date.
	FindPeriodsByDate(ctx context.Context, companyID string, date time.Time) ([]domain.FiscalPeriod, error)
}

// FiscalWriter is used by administrative tooling only.
type FiscalWriter interface {
	// SaveFiscalYear inserts a fiscal year and its periods.
	SaveFiscalYear(ctx context.Context, year domain.FiscalYear) error
}

// FiscalRepositoryFacade combines all fiscal calendar repository interfaces
type FiscalRepositoryFacade interface {
	FiscalReader
	FiscalWriter
}
