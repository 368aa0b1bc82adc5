package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

type fiscalRepository struct {
	db access
}

var _ portsrepo.FiscalRepositoryFacade = (*fiscalRepository)(nil)

// FindPeriodsByDate reports periods of a closed year as closed.
func (r *fiscalRepository) FindPeriodsByDate(ctx context.Context, companyID string, date time.Time) ([]domain.FiscalPeriod, error) {
	out := make([]domain.FiscalPeriod, 0, 1)
	err := r.db.read(func(st *state) error {
		for _, p := range st.periods {
			if p.CompanyID == companyID && p.Contains(date) {
				if year, ok := st.years[p.FiscalYearID]; ok && year.IsClosed {
					p.IsClosed = true
				}
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, err
}

func (r *fiscalRepository) SaveFiscalYear(ctx context.Context, year domain.FiscalYear) error {
	if err := year.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return r.db.write(func(st *state) error {
		if _, exists := st.years[year.FiscalYearID]; exists {
			return fmt.Errorf("%w: fiscal year %s already exists", apperrors.ErrDuplicate, year.FiscalYearID)
		}
		for _, p := range year.Periods {
			p.FiscalYearID = year.FiscalYearID
			p.CompanyID = year.CompanyID
			st.periods[p.FiscalPeriodID] = p
		}
		year.Periods = nil
		st.years[year.FiscalYearID] = year
		return nil
	})
}
