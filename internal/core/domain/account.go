package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// IsCreditNormal reports whether a positive reported balance means net credits.
func (t AccountType) IsCreditNormal() bool {
	return t == Liability || t == Equity || t == Income
}

// Account is a node in a company's chart of accounts.
type Account struct {
	AccountID       string      `json:"accountID"`
	CompanyID       string      `json:"companyID"`
	Code            string      `json:"code"` // unique per company
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID string      `json:"parentAccountID"` // empty for roots
	CurrencyCode    string      `json:"currencyCode"`
	IsGroup         bool        `json:"isGroup"`
	IsActive        bool        `json:"isActive"`
	Description     string      `json:"description"`
	AuditFields
}

// IsRoot reports whether the account has no parent.
func (a Account) IsRoot() bool {
	return a.ParentAccountID == ""
}

// AccountFilter narrows account listings and trees.
type AccountFilter struct {
	AccountType     *AccountType
	IncludeInactive bool
}

// Matches reports whether a passes the filter.
func (f AccountFilter) Matches(a Account) bool {
	if !f.IncludeInactive && !a.IsActive {
		return false
	}
	if f.AccountType != nil && a.AccountType != *f.AccountType {
		return false
	}
	return true
}

// LedgerTotals is the raw debit/credit aggregate of an account's ledger lines.
type LedgerTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Net returns debit minus credit.
func (t LedgerTotals) Net() decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}
