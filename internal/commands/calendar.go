package commands

import (
	"fmt"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/platform/app"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newCalendarCommand(factory AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Manage fiscal calendars",
	}
	cmd.AddCommand(newCalendarSeedCommand(factory))
	return cmd
}

func newCalendarSeedCommand(factory AppFactory) *cobra.Command {
	var (
		companyID  string
		startMonth string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a fiscal year of twelve monthly periods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			year, err := monthlyFiscalYear(companyID, startMonth)
			if err != nil {
				return err
			}
			return withApp(cmd, factory, func(a *app.App) error {
				if err := a.Repos.FiscalRepo.SaveFiscalYear(cmd.Context(), year); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "fiscal year %s (%s to %s) created with %d periods\n",
					year.Name, year.StartDate.Format(time.DateOnly), year.EndDate.Format(time.DateOnly), len(year.Periods))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&companyID, "company", "", "company ID")
	cmd.Flags().StringVar(&startMonth, "start", "", "first month of the fiscal year (YYYY-MM)")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

// monthlyFiscalYear builds a year starting on the first day of startMonth.
func monthlyFiscalYear(companyID, startMonth string) (domain.FiscalYear, error) {
	start, err := time.Parse("2006-01", startMonth)
	if err != nil {
		return domain.FiscalYear{}, fmt.Errorf("invalid --start %q, expected YYYY-MM", startMonth)
	}
	periods := domain.MonthlyPeriods(start)
	for i := range periods {
		periods[i].FiscalPeriodID = uuid.NewString()
	}
	end := start.AddDate(1, 0, -1)
	name := "FY" + start.Format("2006")
	if start.Month() != time.January {
		name = fmt.Sprintf("FY%s-%s", start.Format("2006"), end.Format("06"))
	}
	return domain.FiscalYear{
		FiscalYearID: uuid.NewString(),
		CompanyID:    companyID,
		Name:         name,
		StartDate:    start,
		EndDate:      end,
		Periods:      periods,
	}, nil
}
