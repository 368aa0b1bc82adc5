package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// FiscalYear groups the fiscal periods of a company's accounting year.
type FiscalYear struct {
	FiscalYearID string         `json:"fiscalYearID"`
	CompanyID    string         `json:"companyID"`
	Name         string         `json:"name"`
	StartDate    time.Time      `json:"startDate"`
	EndDate      time.Time      `json:"endDate"`
	IsClosed     bool           `json:"isClosed"`
	Periods      []FiscalPeriod `json:"periods,omitempty"`
}

// FiscalPeriod is a date range inside a fiscal year that can be open or closed for posting.
type FiscalPeriod struct {
	FiscalPeriodID string    `json:"fiscalPeriodID"`
	FiscalYearID   string    `json:"fiscalYearID"`
	CompanyID      string    `json:"companyID"`
	Name           string    `json:"name"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	IsClosed       bool      `json:"isClosed"`
}

// Contains reports whether date falls inside the period, both ends inclusive.
func (p FiscalPeriod) Contains(date time.Time) bool {
	d := NormalizeDate(date)
	return !d.Before(NormalizeDate(p.StartDate)) && !d.After(NormalizeDate(p.EndDate))
}

// Validate checks that the year's periods lie inside it and do not overlap.
func (y FiscalYear) Validate() error {
	start, end := NormalizeDate(y.StartDate), NormalizeDate(y.EndDate)
	if end.Before(start) {
		return errors.New("fiscal year ends before it starts")
	}
	periods := make([]FiscalPeriod, len(y.Periods))
	copy(periods, y.Periods)
	sort.Slice(periods, func(i, j int) bool { return periods[i].StartDate.Before(periods[j].StartDate) })
	for i, p := range periods {
		ps, pe := NormalizeDate(p.StartDate), NormalizeDate(p.EndDate)
		if pe.Before(ps) {
			return fmt.Errorf("period %q ends before it starts", p.Name)
		}
		if ps.Before(start) || pe.After(end) {
			return fmt.Errorf("period %q lies outside fiscal year %q", p.Name, y.Name)
		}
		if i > 0 && !ps.After(NormalizeDate(periods[i-1].EndDate)) {
			return fmt.Errorf("period %q overlaps period %q", p.Name, periods[i-1].Name)
		}
	}
	return nil
}

// MonthlyPeriods splits [start, start+12 months) into calendar-month periods.
func MonthlyPeriods(start time.Time) []FiscalPeriod {
	start = NormalizeDate(start)
	periods := make([]FiscalPeriod, 0, 12)
	for i := 0; i < 12; i++ {
		ps := start.AddDate(0, i, 0)
		pe := start.AddDate(0, i+1, -1)
		periods = append(periods, FiscalPeriod{
			Name:      ps.Format("2006-01"),
			StartDate: ps,
			EndDate:   pe,
		})
	}
	return periods
}
