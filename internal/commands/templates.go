package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/platform/app"
	"github.com/spf13/cobra"
)

func newTemplatesCommand(factory AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect and apply chart-of-accounts templates",
	}
	cmd.AddCommand(newTemplatesListCommand(factory), newTemplatesApplyCommand(factory))
	return cmd
}

func newTemplatesListCommand(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, factory, func(a *app.App) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tCURRENCY\tACCOUNTS\tDESCRIPTION")
				for _, t := range a.Services.Maintenance.ListTemplates() {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", t.Name, t.Currency, t.Size(), t.Description)
				}
				return w.Flush()
			})
		},
	}
}

func newTemplatesApplyCommand(factory AppFactory) *cobra.Command {
	var companyID, actorID, currency string
	cmd := &cobra.Command{
		Use:   "apply <template>",
		Short: "Create the template's accounts that the company does not have yet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, factory, func(a *app.App) error {
				created, err := a.Services.Maintenance.ApplyAccountTemplate(cmd.Context(), companyID, args[0],
					dto.ApplyTemplateRequest{CurrencyCode: currency}, actorID)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "CODE\tTYPE\tGROUP\tNAME")
				for _, acc := range created {
					fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", acc.Code, acc.AccountType, acc.IsGroup, acc.Name)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d accounts\n", len(created))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&companyID, "company", "", "company ID")
	cmd.Flags().StringVar(&actorID, "actor", "", "user ID recorded as the creator")
	cmd.Flags().StringVar(&currency, "currency", "", "override the template's currency code")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("actor")
	return cmd
}
