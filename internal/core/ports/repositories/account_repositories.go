package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves an account of the company by its id.
	FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account of the company by its code.
	FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves the accounts that exist among accountIDs, keyed by id.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns the company's accounts matching filter, ordered by code.
	ListAccounts(ctx context.Context, companyID string, filter domain.AccountFilter) ([]domain.Account, error)

	// ListChildren returns the direct children of parentID, active or not, ordered by code.
	ListChildren(ctx context.Context, companyID, parentID string) ([]domain.Account, error)

	// ListCompanyIDs returns every company that owns at least one account.
	ListCompanyIDs(ctx context.Context) ([]string, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount overwrites the mutable fields of an existing account.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account that has no ledger history and no children.
	DeleteAccount(ctx context.Context, companyID, accountID string) error

	// ReparentChildren moves every direct child of fromParentID under toParentID.
	ReparentChildren(ctx context.Context, companyID, fromParentID, toParentID, actorID string, now time.Time) (int64, error)
}

// AccountLocker takes row locks on accounts for the life of the current transaction.
// Outside a transaction the calls are no-ops.
type AccountLocker interface {
	// LockAccountsForShare blocks structural changes to the accounts while postings run.
	LockAccountsForShare(ctx context.Context, companyID string, accountIDs []string) error

	// LockAccountsForUpdate gives the caller exclusive use of the accounts.
	LockAccountsForUpdate(ctx context.Context, companyID string, accountIDs []string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountLocker
}
