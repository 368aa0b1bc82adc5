package repositories

import (
	"context"
)

// TxRepositories exposes repositories bound to a single transaction.
type TxRepositories interface {
	Accounts() AccountRepositoryFacade
	Journals() JournalRepositoryFacade
	Fiscal() FiscalRepositoryFacade
}

// UnitOfWork runs functions against transaction-bound repositories.
type UnitOfWork interface {
	// WithTx commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error

	// WithSnapshot runs fn read-only against a consistent snapshot.
	WithSnapshot(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
