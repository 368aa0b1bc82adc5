package dto

import "github.com/SscSPs/general_ledger/internal/core/domain"

// FiscalPeriodResponse defines the data returned for a fiscal period.
type FiscalPeriodResponse struct {
	FiscalPeriodID string `json:"fiscalPeriodID"`
	FiscalYearID   string `json:"fiscalYearID"`
	Name           string `json:"name"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	IsClosed       bool   `json:"isClosed"`
}

// PeriodLookupResponse answers whether a date is postable.
type PeriodLookupResponse struct {
	Date       string               `json:"date"`
	IsPostable bool                 `json:"isPostable"`
	Period     FiscalPeriodResponse `json:"period"`
}

// PeriodLookupParams defines query parameters for a period lookup.
type PeriodLookupParams struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// ToFiscalPeriodResponse converts a domain.FiscalPeriod to its DTO.
func ToFiscalPeriodResponse(p *domain.FiscalPeriod) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		FiscalPeriodID: p.FiscalPeriodID,
		FiscalYearID:   p.FiscalYearID,
		Name:           p.Name,
		StartDate:      p.StartDate.Format(domain.DateLayout),
		EndDate:        p.EndDate.Format(domain.DateLayout),
		IsClosed:       p.IsClosed,
	}
}
