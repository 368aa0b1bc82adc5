package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceDrift records a cached leaf sum that disagreed with a fresh replay.
type BalanceDrift struct {
	AccountID string          `json:"accountID"`
	Cached    decimal.Decimal `json:"cached"`
	Replayed  decimal.Decimal `json:"replayed"`
}

// IntegrityReport is the outcome of a ledger integrity check for one company.
type IntegrityReport struct {
	CompanyID           string         `json:"companyID"`
	CheckedAt           time.Time      `json:"checkedAt"`
	UnbalancedEntries   []string       `json:"unbalancedEntries"`
	EntriesOnGroups     []string       `json:"entriesOnGroups"`
	CacheDrift          []BalanceDrift `json:"cacheDrift"`
	LeafAccountsChecked int            `json:"leafAccountsChecked"`
}

// Healthy reports whether the check found nothing wrong.
func (r IntegrityReport) Healthy() bool {
	return len(r.UnbalancedEntries) == 0 && len(r.EntriesOnGroups) == 0 && len(r.CacheDrift) == 0
}
