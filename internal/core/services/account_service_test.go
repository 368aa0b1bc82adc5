package services_test

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
)

func ptr[T any](v T) *T { return &v }

func (s *LedgerTestSuite) TestCreateAccount_ValidatesParentAndCode() {
	assets := s.create("1000", domain.Asset, "", true)
	cash := s.create("1100", domain.Asset, assets.AccountID, false)

	_, err := s.svc.Account.CreateAccount(s.ctx, company, dto.CreateAccountRequest{
		Code: "1000", Name: "Dup", AccountType: domain.Asset,
	}, actor)
	s.ErrorIs(err, apperrors.ErrConflict)

	_, err = s.svc.Account.CreateAccount(s.ctx, company, dto.CreateAccountRequest{
		Code: "1110", Name: "Under leaf", AccountType: domain.Asset, ParentAccountID: cash.AccountID,
	}, actor)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Account.CreateAccount(s.ctx, company, dto.CreateAccountRequest{
		Code: "2100", Name: "Wrong type", AccountType: domain.Liability, ParentAccountID: assets.AccountID,
	}, actor)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Account.CreateAccount(s.ctx, company, dto.CreateAccountRequest{
		Code: "1200", Name: "Orphan", AccountType: domain.Asset, ParentAccountID: "missing",
	}, actor)
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.svc.Account.CreateAccount(s.ctx, company, dto.CreateAccountRequest{
		Code: "9000", Name: "Bad", AccountType: "BOGUS",
	}, actor)
	s.ErrorIs(err, apperrors.ErrValidation)

	// codes are scoped per company
	_, err = s.svc.Account.CreateAccount(s.ctx, "c2", dto.CreateAccountRequest{
		Code: "1000", Name: "Other company", AccountType: domain.Asset,
	}, actor)
	s.NoError(err)
}

func (s *LedgerTestSuite) TestHierarchyQueries() {
	assets := s.create("1000", domain.Asset, "", true)
	bank := s.create("1200", domain.Asset, assets.AccountID, false)
	cash := s.create("1100", domain.Asset, assets.AccountID, false)
	s.create("4000", domain.Income, "", false)

	byCode, err := s.svc.Account.GetAccountByCode(s.ctx, company, "1100")
	s.Require().NoError(err)
	s.Equal(cash.AccountID, byCode.AccountID)

	_, err = s.svc.Account.GetAccount(s.ctx, company, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)

	children, err := s.svc.Account.Children(s.ctx, company, assets.AccountID)
	s.Require().NoError(err)
	s.Require().Len(children, 2)
	s.Equal(cash.AccountID, children[0].AccountID)
	s.Equal(bank.AccountID, children[1].AccountID)

	_, err = s.svc.Account.Children(s.ctx, company, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)

	tree, err := s.svc.Account.BuildTree(s.ctx, company, domain.AccountFilter{})
	s.Require().NoError(err)
	s.Require().Len(tree, 2)
	s.Equal("1000", tree[0].Code)
	s.Len(tree[0].Children, 2)

	assetType := domain.Income
	tree, err = s.svc.Account.BuildTree(s.ctx, company, domain.AccountFilter{AccountType: &assetType})
	s.Require().NoError(err)
	s.Require().Len(tree, 1)
	s.Equal("4000", tree[0].Code)
}

func (s *LedgerTestSuite) TestWouldCreateCycle() {
	root := s.create("1000", domain.Asset, "", true)
	mid := s.create("1100", domain.Asset, root.AccountID, true)
	leaf := s.create("1110", domain.Asset, mid.AccountID, false)

	cases := []struct {
		account, parent string
		want            bool
	}{
		{root.AccountID, root.AccountID, true},
		{root.AccountID, mid.AccountID, true},
		{root.AccountID, leaf.AccountID, true},
		{leaf.AccountID, root.AccountID, false},
		{mid.AccountID, "", false},
	}
	for _, c := range cases {
		got, err := s.svc.Account.WouldCreateCycle(s.ctx, company, c.account, c.parent)
		s.Require().NoError(err)
		s.Equal(c.want, got)
	}

	_, err := s.svc.Account.UpdateAccount(s.ctx, company, root.AccountID, dto.UpdateAccountRequest{ParentAccountID: ptr(mid.AccountID)}, actor)
	s.ErrorIs(err, apperrors.ErrConflict)

	stored, err := s.svc.Account.GetAccount(s.ctx, company, root.AccountID)
	s.Require().NoError(err)
	s.True(stored.IsRoot())
}

func (s *LedgerTestSuite) TestUpdateAccount_RenameAndReparent() {
	a := s.create("1000", domain.Asset, "", true)
	b := s.create("1500", domain.Asset, "", true)
	leaf := s.create("1100", domain.Asset, a.AccountID, false)

	updated, err := s.svc.Account.UpdateAccount(s.ctx, company, leaf.AccountID, dto.UpdateAccountRequest{
		Code:            ptr("1510"),
		Name:            ptr("Petty cash"),
		ParentAccountID: ptr(b.AccountID),
	}, "actor-2")
	s.Require().NoError(err)
	s.Equal("1510", updated.Code)
	s.Equal("Petty cash", updated.Name)
	s.Equal(b.AccountID, updated.ParentAccountID)
	s.Equal("actor-2", updated.LastUpdatedBy)

	_, err = s.svc.Account.GetAccountByCode(s.ctx, company, "1100")
	s.ErrorIs(err, apperrors.ErrNotFound)

	updated, err = s.svc.Account.UpdateAccount(s.ctx, company, leaf.AccountID, dto.UpdateAccountRequest{ParentAccountID: ptr("")}, actor)
	s.Require().NoError(err)
	s.True(updated.IsRoot())

	_, err = s.svc.Account.UpdateAccount(s.ctx, company, leaf.AccountID, dto.UpdateAccountRequest{Code: ptr("1000")}, actor)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *LedgerTestSuite) TestUpdateAccount_GroupToggleRules() {
	cash := s.create("1100", domain.Asset, "", false)
	sales := s.create("4000", domain.Income, "", false)
	s.mustPost("2024-01-15", line(cash.AccountID, "5", "0"), line(sales.AccountID, "0", "5"))

	_, err := s.svc.Account.UpdateAccount(s.ctx, company, cash.AccountID, dto.UpdateAccountRequest{IsGroup: ptr(true)}, actor)
	s.ErrorIs(err, apperrors.ErrConflict)

	group := s.create("1000", domain.Asset, "", true)
	s.create("1200", domain.Asset, group.AccountID, false)
	_, err = s.svc.Account.UpdateAccount(s.ctx, company, group.AccountID, dto.UpdateAccountRequest{IsGroup: ptr(false)}, actor)
	s.ErrorIs(err, apperrors.ErrConflict)

	empty := s.create("1300", domain.Asset, "", false)
	updated, err := s.svc.Account.UpdateAccount(s.ctx, company, empty.AccountID, dto.UpdateAccountRequest{IsGroup: ptr(true)}, actor)
	s.Require().NoError(err)
	s.True(updated.IsGroup)
}

func (s *LedgerTestSuite) TestDeactivateAccount() {
	group := s.create("1000", domain.Asset, "", true)
	cash := s.create("1100", domain.Asset, group.AccountID, false)
	sales := s.create("4000", domain.Income, "", false)
	s.mustPost("2024-01-15", line(cash.AccountID, "5", "0"), line(sales.AccountID, "0", "5"))

	s.ErrorIs(s.svc.Account.DeactivateAccount(s.ctx, company, group.AccountID, actor), apperrors.ErrConflict)
	s.ErrorIs(s.svc.Account.DeactivateAccount(s.ctx, company, cash.AccountID, actor), apperrors.ErrConflict)

	s.mustPost("2024-01-16", line(sales.AccountID, "5", "0"), line(cash.AccountID, "0", "5"))
	s.Require().NoError(s.svc.Account.DeactivateAccount(s.ctx, company, cash.AccountID, actor))
	s.Require().NoError(s.svc.Account.DeactivateAccount(s.ctx, company, cash.AccountID, actor))
	s.Require().NoError(s.svc.Account.DeactivateAccount(s.ctx, company, group.AccountID, actor))

	active, err := s.svc.Account.ListAccounts(s.ctx, company, domain.AccountFilter{})
	s.Require().NoError(err)
	s.Len(active, 1)

	s.ErrorIs(s.svc.Account.DeactivateAccount(s.ctx, company, "missing", actor), apperrors.ErrNotFound)
}

func (s *LedgerTestSuite) TestStructuralLockContentionSurfacesAfterRetries() {
	group := s.create("1000", domain.Asset, "", true)

	release, err := s.locker.TryLock(s.ctx, company, []string{group.AccountID})
	s.Require().NoError(err)

	_, err = s.svc.Account.CreateAccount(s.ctx, company, dto.CreateAccountRequest{
		Code: "1100", Name: "Cash", AccountType: domain.Asset, ParentAccountID: group.AccountID,
	}, actor)
	s.ErrorIs(err, apperrors.ErrConcurrency)

	s.Require().NoError(release(context.Background()))
	s.create("1100", domain.Asset, group.AccountID, false)
}
