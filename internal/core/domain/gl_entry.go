package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GLEntry is one leg of a journal entry. Exactly one of Debit and Credit is nonzero.
type GLEntry struct {
	GLEntryID      string          `json:"glEntryID"`
	JournalEntryID string          `json:"journalEntryID"`
	CompanyID      string          `json:"companyID"`
	AccountID      string          `json:"accountID"` // always a leaf at posting time
	PostingDate    time.Time       `json:"postingDate"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Description    string          `json:"description"`
	Reference      string          `json:"reference"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// AmountScale is the number of decimal places stored for ledger amounts.
const AmountScale = 4

// amountIntegerDigits is the integer digit capacity of a stored amount, NUMERIC(20, 4).
const amountIntegerDigits = 16

var maxAmount = decimal.New(1, amountIntegerDigits)

// FitsAmountColumn reports whether d can be stored without rounding or overflow.
func FitsAmountColumn(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale)) && d.Abs().LessThan(maxAmount)
}
