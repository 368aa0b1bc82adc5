package models

import "time"

// FiscalYear is a row of the fiscal_years table.
type FiscalYear struct {
	FiscalYearID string    `db:"fiscal_year_id"`
	CompanyID    string    `db:"company_id"`
	Name         string    `db:"name"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	IsClosed     bool      `db:"is_closed"`
}

// FiscalPeriod is a row of the fiscal_periods table joined with its year's
// closed flag.
type FiscalPeriod struct {
	FiscalPeriodID string    `db:"fiscal_period_id"`
	FiscalYearID   string    `db:"fiscal_year_id"`
	CompanyID      string    `db:"company_id"`
	Name           string    `db:"name"`
	StartDate      time.Time `db:"start_date"`
	EndDate        time.Time `db:"end_date"`
	IsClosed       bool      `db:"is_closed"`
	YearClosed     bool      `db:"year_closed"`
}
