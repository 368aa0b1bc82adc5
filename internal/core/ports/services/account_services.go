package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// AccountReaderSvc defines read operations over the account hierarchy
type AccountReaderSvc interface {
	// GetAccount retrieves an account of the company by id.
	GetAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account of the company by code.
	GetAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error)

	// ListAccounts returns the company's accounts matching filter, ordered by code.
	ListAccounts(ctx context.Context, companyID string, filter domain.AccountFilter) ([]domain.Account, error)

	// Children returns the direct children of an account ordered by code.
	Children(ctx context.Context, companyID, accountID string) ([]domain.Account, error)

	// WouldCreateCycle reports whether making proposedParentID the parent of accountID closes a loop.
	WouldCreateCycle(ctx context.Context, companyID, accountID, proposedParentID string) (bool, error)

	// BuildTree assembles the company's accounts into a forest.
	BuildTree(ctx context.Context, companyID string, filter domain.AccountFilter) ([]*domain.AccountNode, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, companyID, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, companyID, accountID, actorID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
