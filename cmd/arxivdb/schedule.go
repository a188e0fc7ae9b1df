package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newScheduleCmd(a *app) *cobra.Command {
	var (
		f      runFlags
		spec   string
		runNow bool
	)
	cmd := &cobra.Command{
		Use:   "schedule --cron <spec> -i <input> -o <output>",
		Short: "Run load periodically until interrupted",
		Long: `Schedule runs an independent load on every tick of a standard five-field
cron spec (or a descriptor such as @daily). A tick that fires while the
previous load is still running is skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.pipeline(cmd, a.cfgPath)
			if err != nil {
				return err
			}
			if err := checkPipeline(p, a.log); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			flush := setupMetrics(p, a.log)
			defer flush()

			job := func() {
				sum, err := runLoad(ctx, p, a.log, cmd.ErrOrStderr())
				if err != nil {
					a.log.Error("scheduled load failed", zap.Error(err))
					return
				}
				a.log.Info("scheduled load done",
					zap.Int("batches", sum.Batches),
					zap.Int64("records", sum.Records),
				)
			}

			c, err := newScheduler(spec, job, a.log)
			if err != nil {
				return err
			}
			if runNow {
				job()
			}
			c.Start()
			a.log.Info("scheduler started", zap.String("cron", spec))

			<-ctx.Done()
			<-c.Stop().Done()
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&spec, "cron", "", "cron spec, e.g. \"0 3 * * *\" or @daily")
	cmd.Flags().BoolVar(&runNow, "run-now", false, "also run once immediately")
	_ = cmd.MarkFlagRequired("cron")
	return cmd
}

// newScheduler registers job on spec. Overlapping ticks are skipped so at
// most one load writes to the target at a time.
func newScheduler(spec string, job func(), log *zap.Logger) (*cron.Cron, error) {
	logger := cron.PrintfLogger(zap.NewStdLog(log))
	c := cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("cron spec %q: %w", spec, err)
	}
	return c, nil
}

