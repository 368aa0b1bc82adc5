package commands

import (
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/SscSPs/general_ledger/internal/jobs"
	"github.com/SscSPs/general_ledger/internal/platform/app"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
)

var errRedisRequired = errors.New("REDIS_ADDR must be set for background jobs")

func redisClientOpt(a *app.App) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     a.Config.RedisAddr,
		Password: a.Config.RedisPassword,
		DB:       a.Config.RedisDB,
	}
}

func newWorkerCommand(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Process background jobs and schedule the periodic integrity check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return withApp(cmd, factory, func(a *app.App) error {
				if !a.Config.RedisEnabled() {
					return errRedisRequired
				}
				logger := commandLogger(a)
				integrityJob := jobs.NewIntegrityCheckJob(a.Services.Integrity, logger)

				var cron []jobs.CronRegistration
				if a.Config.IntegrityCron != "" {
					task, err := jobs.NewIntegrityCheckTask("")
					if err != nil {
						return err
					}
					cron = append(cron, jobs.CronRegistration{
						Spec:    a.Config.IntegrityCron,
						Task:    task,
						Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)},
					})
				}

				worker, err := jobs.NewWorker(jobs.WorkerConfig{
					RedisOpts:   redisClientOpt(a),
					Concurrency: a.Config.WorkerConcurrency,
					Logger:      logger,
					Handlers: []jobs.TaskHandler{
						{Type: jobs.TaskIntegrityCheck, Handler: integrityJob.Handle},
					},
					Cron: cron,
				})
				if err != nil {
					return err
				}

				logger.Info("worker started",
					slog.String("redis", a.Config.RedisAddr),
					slog.String("integrity_cron", a.Config.IntegrityCron))
				if err := worker.Run(ctx); err != nil && !errors.Is(err, ctx.Err()) {
					return err
				}
				logger.Info("worker stopped")
				return nil
			})
		},
	}
}
