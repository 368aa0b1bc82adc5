package models

import "time"

// AuditFields mirrors the audit columns shared by mutable tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}

// Account is a row of the accounts table.
type Account struct {
	AccountID       string  `db:"account_id"`
	CompanyID       string  `db:"company_id"`
	Code            string  `db:"code"`
	Name            string  `db:"name"`
	AccountType     string  `db:"account_type"`
	ParentAccountID *string `db:"parent_account_id"` // NULL for roots
	CurrencyCode    string  `db:"currency_code"`
	IsGroup         bool    `db:"is_group"`
	IsActive        bool    `db:"is_active"`
	Description     string  `db:"description"`
	AuditFields
}
