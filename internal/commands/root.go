// Package commands implements glctl, the operator CLI for the ledger.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/general_ledger/internal/platform/app"
	"github.com/SscSPs/general_ledger/internal/platform/config"
	"github.com/spf13/cobra"
)

// AppFactory builds the wired application a subcommand runs against.
type AppFactory func(ctx context.Context) (*app.App, error)

// DefaultAppFactory loads configuration from the environment and connects storage.
func DefaultAppFactory(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := app.NewLogger(os.Stderr, cfg.LogLevel)
	return app.New(ctx, cfg, logger, app.Options{})
}

// NewRootCommand returns the glctl command tree.
func NewRootCommand(factory AppFactory) *cobra.Command {
	if factory == nil {
		factory = DefaultAppFactory
	}
	root := &cobra.Command{
		Use:          "glctl",
		Short:        "Operate the general ledger: templates, fiscal calendars, integrity checks and workers",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.AddCommand(
		newTemplatesCommand(factory),
		newCalendarCommand(factory),
		newIntegrityCommand(factory),
		newWorkerCommand(factory),
	)
	return root
}

// withApp opens the application for the duration of fn.
func withApp(cmd *cobra.Command, factory AppFactory, fn func(a *app.App) error) error {
	a, err := factory(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func commandLogger(a *app.App) *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}
