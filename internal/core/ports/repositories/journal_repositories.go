package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindJournalEntryByID retrieves a journal entry together with its lines.
	FindJournalEntryByID(ctx context.Context, companyID, journalEntryID string) (*domain.JournalEntry, error)

	// FindReversalOf returns the entry that reverses journalEntryID, or ErrNotFound.
	FindReversalOf(ctx context.Context, companyID, journalEntryID string) (*domain.JournalEntry, error)

	// ListJournalEntries returns entry headers newest first using token-based pagination.
	ListJournalEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// NextEntryNumber allocates the next entry number of the company. It must
	// run inside the same transaction as the insert that consumes it.
	NextEntryNumber(ctx context.Context, companyID string) (int64, error)

	// SaveJournalEntry inserts the entry and all of its lines.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error
}

// LedgerReader aggregates GL lines
type LedgerReader interface {
	// SumByAccounts returns debit/credit totals per account for lines dated on or
	// before asOf (all lines when asOf is nil). Accounts without lines are absent.
	SumByAccounts(ctx context.Context, companyID string, accountIDs []string, asOf *time.Time) (map[string]domain.LedgerTotals, error)

	// CountEntriesByAccount counts the GL lines that reference accountID.
	CountEntriesByAccount(ctx context.Context, companyID, accountID string) (int64, error)

	// FindUnbalancedJournalEntries returns ids of entries whose header totals
	// disagree with each other or with their lines.
	FindUnbalancedJournalEntries(ctx context.Context, companyID string) ([]string, error)

	// FindEntriesOnGroupAccounts returns ids of GL lines that reference group accounts.
	FindEntriesOnGroupAccounts(ctx context.Context, companyID string) ([]string, error)
}

// LedgerWriter rewrites GL line ownership during merges. Amounts are never touched.
type LedgerWriter interface {
	RepointEntries(ctx context.Context, companyID, fromAccountID, toAccountID string) (int64, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LedgerReader
	LedgerWriter
}
