package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	JournalEntryID string          `db:"journal_entry_id"`
	CompanyID      string          `db:"company_id"`
	EntryNumber    int64           `db:"entry_number"`
	PostingDate    time.Time       `db:"posting_date"`
	Reference      string          `db:"reference"`
	Description    string          `db:"description"`
	TotalDebit     decimal.Decimal `db:"total_debit"`
	TotalCredit    decimal.Decimal `db:"total_credit"`
	IsPosted       bool            `db:"is_posted"`
	ReversalOfID   *string         `db:"reversal_of_id"`
	CreatedBy      string          `db:"created_by"`
	CreatedAt      time.Time       `db:"created_at"`
}

// GLEntry is a row of the gl_entries table.
type GLEntry struct {
	GLEntryID      string          `db:"gl_entry_id"`
	JournalEntryID string          `db:"journal_entry_id"`
	CompanyID      string          `db:"company_id"`
	AccountID      string          `db:"account_id"`
	PostingDate    time.Time       `db:"posting_date"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	Description    string          `db:"description"`
	Reference      string          `db:"reference"`
	CreatedAt      time.Time       `db:"created_at"`
}
