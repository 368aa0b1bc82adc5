package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is an atomic, balanced financial transaction made of GL lines.
// Once posted it is never mutated.
type JournalEntry struct {
	JournalEntryID string          `json:"journalEntryID"`
	CompanyID      string          `json:"companyID"`
	EntryNumber    int64           `json:"entryNumber"` // per company, gap-free
	PostingDate    time.Time       `json:"postingDate"`
	Reference      string          `json:"reference"`
	Description    string          `json:"description"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	IsPosted       bool            `json:"isPosted"`
	ReversalOfID   string          `json:"reversalOfID,omitempty"`
	CreatedBy      string          `json:"createdBy"`
	CreatedAt      time.Time       `json:"createdAt"`
	Lines          []GLEntry       `json:"lines,omitempty"`
}

// IsBalanced reports whether the header totals agree with each other and with the lines.
func (j JournalEntry) IsBalanced() bool {
	if !j.TotalDebit.Equal(j.TotalCredit) {
		return false
	}
	if len(j.Lines) == 0 {
		return true
	}
	debit, credit := SumLines(j.Lines)
	return debit.Equal(j.TotalDebit) && credit.Equal(j.TotalCredit)
}

// SumLines totals the debit and credit columns of lines.
func SumLines(lines []GLEntry) (decimal.Decimal, decimal.Decimal) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// JournalEntryPage is one page of a journal listing.
type JournalEntryPage struct {
	Entries   []JournalEntry
	NextToken *string
}
