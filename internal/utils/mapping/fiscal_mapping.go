package mapping

import (
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
)

// ToModelFiscalYear converts a domain FiscalYear to its row. Periods are mapped separately.
func ToModelFiscalYear(d domain.FiscalYear) models.FiscalYear {
	return models.FiscalYear{
		FiscalYearID: d.FiscalYearID,
		CompanyID:    d.CompanyID,
		Name:         d.Name,
		StartDate:    domain.NormalizeDate(d.StartDate),
		EndDate:      domain.NormalizeDate(d.EndDate),
		IsClosed:     d.IsClosed,
	}
}

// ToDomainFiscalPeriod converts a period row. A period of a closed year is reported closed.
func ToDomainFiscalPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		FiscalPeriodID: m.FiscalPeriodID,
		FiscalYearID:   m.FiscalYearID,
		CompanyID:      m.CompanyID,
		Name:           m.Name,
		StartDate:      domain.NormalizeDate(m.StartDate),
		EndDate:        domain.NormalizeDate(m.EndDate),
		IsClosed:       m.IsClosed || m.YearClosed,
	}
}
