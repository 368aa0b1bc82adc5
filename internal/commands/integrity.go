package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/jobs"
	"github.com/SscSPs/general_ledger/internal/platform/app"
	"github.com/spf13/cobra"
)

// ErrIntegrityViolations is returned by "integrity check" when any company is unhealthy.
var ErrIntegrityViolations = errors.New("ledger integrity violations found")

func newIntegrityCommand(factory AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integrity",
		Short: "Audit ledger invariants",
	}
	cmd.AddCommand(newIntegrityCheckCommand(factory), newIntegrityEnqueueCommand(factory))
	return cmd
}

func newIntegrityCheckCommand(factory AppFactory) *cobra.Command {
	var companyID string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the integrity check now and print the reports as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, factory, func(a *app.App) error {
				var reports []domain.IntegrityReport
				if companyID == "" {
					all, err := a.Services.Integrity.CheckAll(cmd.Context())
					if err != nil {
						return err
					}
					reports = all
				} else {
					report, err := a.Services.Integrity.Check(cmd.Context(), companyID)
					if err != nil {
						return err
					}
					reports = append(reports, *report)
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
				for _, r := range reports {
					if !r.Healthy() {
						return ErrIntegrityViolations
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&companyID, "company", "", "company ID (default: every company)")
	return cmd
}

func newIntegrityEnqueueCommand(factory AppFactory) *cobra.Command {
	var companyID string
	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Queue an integrity check for the background worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, factory, func(a *app.App) error {
				if !a.Config.RedisEnabled() {
					return errRedisRequired
				}
				client := jobs.NewClient(redisClientOpt(a))
				defer client.Close()

				info, err := client.EnqueueIntegrityCheck(cmd.Context(), companyID)
				if err != nil {
					return err
				}
				commandLogger(a).Info("integrity check enqueued",
					slog.String("task_id", info.ID), slog.String("queue", info.Queue))
				fmt.Fprintln(cmd.OutOrStdout(), info.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&companyID, "company", "", "company ID (default: every company)")
	return cmd
}
