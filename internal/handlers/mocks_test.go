package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/core/templates"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, companyID string, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) Children(ctx context.Context, companyID, accountID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) WouldCreateCycle(ctx context.Context, companyID, accountID, proposedParentID string) (bool, error) {
	args := m.Called(ctx, companyID, accountID, proposedParentID)
	return args.Bool(0), args.Error(1)
}
func (m *MockAccountService) BuildTree(ctx context.Context, companyID string, filter domain.AccountFilter) ([]*domain.AccountNode, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccountNode), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, companyID, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, companyID, accountID, actorID string) error {
	args := m.Called(ctx, companyID, accountID, actorID)
	return args.Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) BalanceOf(ctx context.Context, companyID, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockBalanceService) HierarchyWithBalances(ctx context.Context, companyID string, filter domain.AccountFilter, asOf *time.Time) ([]*domain.AccountNode, error) {
	args := m.Called(ctx, companyID, filter, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccountNode), args.Error(1)
}

var _ portssvc.BalanceSvc = (*MockBalanceService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetJournalEntry(ctx context.Context, companyID, journalEntryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, journalEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ListJournalEntries(ctx context.Context, companyID string, params dto.ListJournalEntriesParams) (*domain.JournalEntryPage, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntryPage), args.Error(1)
}
func (m *MockJournalService) PostJournalEntry(ctx context.Context, companyID string, req dto.PostJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ReverseJournalEntry(ctx context.Context, companyID, journalEntryID string, req dto.ReverseJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, journalEntryID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock MaintenanceService ---
type MockMaintenanceService struct {
	mock.Mock
}

func (m *MockMaintenanceService) MergeAccounts(ctx context.Context, companyID string, req dto.MergeAccountsRequest, actorID string) error {
	return m.Called(ctx, companyID, req, actorID).Error(0)
}
func (m *MockMaintenanceService) ApplyAccountTemplate(ctx context.Context, companyID, templateName string, req dto.ApplyTemplateRequest, actorID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, templateName, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockMaintenanceService) ListTemplates() []templates.Template {
	return m.Called().Get(0).([]templates.Template)
}

var _ portssvc.MaintenanceSvc = (*MockMaintenanceService)(nil)

// --- Mock FiscalCalendarService ---
type MockFiscalService struct {
	mock.Mock
}

func (m *MockFiscalService) IsPostable(ctx context.Context, companyID string, date time.Time) (bool, error) {
	args := m.Called(ctx, companyID, date)
	return args.Bool(0), args.Error(1)
}
func (m *MockFiscalService) PeriodFor(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

var _ portssvc.FiscalCalendarSvc = (*MockFiscalService)(nil)
