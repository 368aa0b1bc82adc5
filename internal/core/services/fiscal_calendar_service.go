package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
)

type fiscalCalendarService struct {
	BaseService
	fiscalRepo portsrepo.FiscalReader
}

// NewFiscalCalendarService creates the fiscal calendar service.
func NewFiscalCalendarService(repos portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.FiscalCalendarSvc {
	o := buildOptions(options)
	return &fiscalCalendarService{BaseService: o.base(), fiscalRepo: repos.FiscalRepo}
}

var _ portssvc.FiscalCalendarSvc = (*fiscalCalendarService)(nil)

// lookupPeriod resolves date to its single period. No match is ErrNotFound,
// several matches mean the calendar overlaps and is ErrValidation.
func lookupPeriod(ctx context.Context, reader portsrepo.FiscalReader, companyID string, date time.Time) (*domain.FiscalPeriod, error) {
	periods, err := reader.FindPeriodsByDate(ctx, companyID, domain.NormalizeDate(date))
	if err != nil {
		return nil, err
	}
	switch len(periods) {
	case 0:
		return nil, fmt.Errorf("%w: no fiscal period contains %s", apperrors.ErrNotFound, date.Format(domain.DateLayout))
	case 1:
		return &periods[0], nil
	default:
		return nil, fmt.Errorf("%w: %d fiscal periods overlap on %s", apperrors.ErrValidation, len(periods), date.Format(domain.DateLayout))
	}
}

func (s *fiscalCalendarService) PeriodFor(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error) {
	return lookupPeriod(ctx, s.fiscalRepo, companyID, date)
}

func (s *fiscalCalendarService) IsPostable(ctx context.Context, companyID string, date time.Time) (bool, error) {
	period, err := lookupPeriod(ctx, s.fiscalRepo, companyID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return !period.IsClosed, nil
}
