package services_test

import (
	"github.com/shopspring/decimal"

	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/dto"
)

func (s *LedgerTestSuite) TestIntegrity_ReportsAndHealsCacheDrift() {
	accs := s.chart()
	cash := accs["1110"].AccountID
	s.assertDecimal("40", s.balance(cash))

	version, err := s.cache.Version(s.ctx, company, cash)
	s.Require().NoError(err)
	s.Require().NoError(s.cache.Set(s.ctx, company, cash, version, services.AsOfKey(nil), decimal.NewFromInt(999)))

	report, err := s.svc.Integrity.Check(s.ctx, company)
	s.Require().NoError(err)
	s.False(report.Healthy())
	s.Require().Len(report.CacheDrift, 1)
	s.Equal(cash, report.CacheDrift[0].AccountID)
	s.assertDecimal("999", report.CacheDrift[0].Cached)
	s.assertDecimal("40", report.CacheDrift[0].Replayed)
	s.Equal(4, report.LeafAccountsChecked)

	// the drifting entry was invalidated, so reads replay from the ledger again
	s.assertDecimal("40", s.balance(cash))
	report, err = s.svc.Integrity.Check(s.ctx, company)
	s.Require().NoError(err)
	s.True(report.Healthy())
}

func (s *LedgerTestSuite) TestIntegrity_CheckAllCoversEveryCompany() {
	s.chart()
	s.seedCalendar("c2")
	_, err := s.svc.Maintenance.ApplyAccountTemplate(s.ctx, "c2", "services", dto.ApplyTemplateRequest{}, actor)
	s.Require().NoError(err)

	reports, err := s.svc.Integrity.CheckAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(reports, 2)
	s.Equal(company, reports[0].CompanyID)
	s.Equal("c2", reports[1].CompanyID)
	for _, r := range reports {
		s.True(r.Healthy(), r.CompanyID)
		s.Empty(r.UnbalancedEntries)
	}
}
