package services_test

import (
	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
)

func (s *LedgerTestSuite) merge(source, target string) error {
	return s.svc.Maintenance.MergeAccounts(s.ctx, company, dto.MergeAccountsRequest{SourceAccountID: source, TargetAccountID: target}, actor)
}

func (s *LedgerTestSuite) TestMerge_ScenarioC_Leaves() {
	group := s.create("1000", domain.Asset, "", true)
	a := s.create("1100", domain.Asset, group.AccountID, false)
	b := s.create("1200", domain.Asset, group.AccountID, false)
	equity := s.create("3000", domain.Equity, "", false)
	s.mustPost("2024-01-10", line(a.AccountID, "50", "0"), line(equity.AccountID, "0", "50"))
	s.mustPost("2024-01-11", line(b.AccountID, "30", "0"), line(equity.AccountID, "0", "30"))

	s.Require().NoError(s.merge(a.AccountID, b.AccountID))

	s.assertDecimal("80", s.balance(b.AccountID))
	s.assertDecimal("80", s.balance(group.AccountID))

	source, err := s.svc.Account.GetAccount(s.ctx, company, a.AccountID)
	s.Require().NoError(err)
	s.False(source.IsActive, "a source with history is kept inactive")

	forest, err := s.svc.Balance.HierarchyWithBalances(s.ctx, company, domain.AccountFilter{}, nil)
	s.Require().NoError(err)
	domain.Walk(forest, func(n *domain.AccountNode) {
		s.NotEqual(a.AccountID, n.AccountID)
	})

	report, err := s.svc.Integrity.Check(s.ctx, company)
	s.Require().NoError(err)
	s.True(report.Healthy())
}

func (s *LedgerTestSuite) TestMerge_ScenarioC_GroupsReparentChildren() {
	a := s.create("1000", domain.Asset, "", true)
	b := s.create("1500", domain.Asset, "", true)
	childA := s.create("1100", domain.Asset, a.AccountID, false)
	s.create("1510", domain.Asset, b.AccountID, false)
	equity := s.create("3000", domain.Equity, "", false)
	s.mustPost("2024-01-10", line(childA.AccountID, "50", "0"), line(equity.AccountID, "0", "50"))

	s.Require().NoError(s.merge(a.AccountID, b.AccountID))

	moved, err := s.svc.Account.GetAccount(s.ctx, company, childA.AccountID)
	s.Require().NoError(err)
	s.Equal(b.AccountID, moved.ParentAccountID)

	_, err = s.svc.Account.GetAccount(s.ctx, company, a.AccountID)
	s.ErrorIs(err, apperrors.ErrNotFound, "a source without history is deleted")
	s.assertDecimal("50", s.balance(b.AccountID))
}

func (s *LedgerTestSuite) TestMerge_Preconditions() {
	root := s.create("1000", domain.Asset, "", true)
	inner := s.create("1100", domain.Asset, root.AccountID, true)
	leafUSD := s.create("1110", domain.Asset, inner.AccountID, false)
	liability := s.create("2000", domain.Liability, "", false)
	eur, err := s.svc.Account.CreateAccount(s.ctx, company, dto.CreateAccountRequest{
		Code: "1120", Name: "Euro cash", AccountType: domain.Asset, CurrencyCode: "EUR", ParentAccountID: inner.AccountID,
	}, actor)
	s.Require().NoError(err)
	retired := s.create("1130", domain.Asset, inner.AccountID, false)
	s.Require().NoError(s.svc.Account.DeactivateAccount(s.ctx, company, retired.AccountID, actor))

	s.ErrorIs(s.merge(leafUSD.AccountID, leafUSD.AccountID), apperrors.ErrValidation)
	s.ErrorIs(s.merge(leafUSD.AccountID, "missing"), apperrors.ErrNotFound)
	s.ErrorIs(s.merge(root.AccountID, inner.AccountID), apperrors.ErrConflict)
	s.ErrorIs(s.merge(leafUSD.AccountID, liability.AccountID), apperrors.ErrConflict)
	s.ErrorIs(s.merge(leafUSD.AccountID, inner.AccountID), apperrors.ErrConflict)
	s.ErrorIs(s.merge(leafUSD.AccountID, eur.AccountID), apperrors.ErrConflict)
	s.ErrorIs(s.merge(leafUSD.AccountID, retired.AccountID), apperrors.ErrConflict)

	all, err := s.svc.Account.ListAccounts(s.ctx, company, domain.AccountFilter{IncludeInactive: true})
	s.Require().NoError(err)
	s.Len(all, 6)
}

func (s *LedgerTestSuite) TestApplyTemplate() {
	created, err := s.svc.Maintenance.ApplyAccountTemplate(s.ctx, company, "standard", dto.ApplyTemplateRequest{CurrencyCode: "eur"}, actor)
	s.Require().NoError(err)
	s.Len(created, 25)
	s.Equal("EUR", created[0].CurrencyCode)

	cash, err := s.svc.Account.GetAccountByCode(s.ctx, company, "1110")
	s.Require().NoError(err)
	current, err := s.svc.Account.GetAccountByCode(s.ctx, company, "1100")
	s.Require().NoError(err)
	s.Equal(current.AccountID, cash.ParentAccountID)

	again, err := s.svc.Maintenance.ApplyAccountTemplate(s.ctx, company, "standard", dto.ApplyTemplateRequest{}, actor)
	s.Require().NoError(err)
	s.Empty(again)

	// services shares codes 1000..4000 with standard and adds the rest
	more, err := s.svc.Maintenance.ApplyAccountTemplate(s.ctx, company, "services", dto.ApplyTemplateRequest{}, actor)
	s.Require().NoError(err)
	for _, acc := range more {
		s.NotEqual("1000", acc.Code)
		s.NotEmpty(acc.ParentAccountID)
	}

	_, err = s.svc.Maintenance.ApplyAccountTemplate(s.ctx, company, "nope", dto.ApplyTemplateRequest{}, actor)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Len(s.svc.Maintenance.ListTemplates(), 2)
}

func (s *LedgerTestSuite) TestApplyTemplate_ConflictWritesNothing() {
	// 1100 exists as a leaf, but the template nests accounts under it
	s.create("1100", domain.Asset, "", false)

	_, err := s.svc.Maintenance.ApplyAccountTemplate(s.ctx, company, "standard", dto.ApplyTemplateRequest{}, actor)
	s.ErrorIs(err, apperrors.ErrConflict)

	all, err := s.svc.Account.ListAccounts(s.ctx, company, domain.AccountFilter{IncludeInactive: true})
	s.Require().NoError(err)
	s.Len(all, 1)

	s.create("2000", domain.Asset, "", true)
	_, err = s.svc.Maintenance.ApplyAccountTemplate(s.ctx, "c1", "services", dto.ApplyTemplateRequest{}, actor)
	s.ErrorIs(err, apperrors.ErrConflict)
}
