package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"arxivdb/internal/config"
)

func newLoadCmd(a *app) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "load -i <input> -o <output>",
		Short: "Load the feed once",
		Long: `Load reads the NDJSON feed in batches, reshapes each batch into documents,
authors and versions rows and appends them to the target database. Rows
whose primary key already exists are skipped, so re-running a load is safe.
Input may be plain, gzip or zstd compressed.`,
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

			_, err = runLoad(ctx, p, a.log, cmd.ErrOrStderr())
			return err
		},
	}
	f.register(cmd)
	return cmd
}

// checkPipeline logs warnings and fails on validation errors.
func checkPipeline(p config.Pipeline, log *zap.Logger) error {
	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		if iss.Severity == config.SeverityWarning {
			log.Warn("config", zap.String("path", iss.Path), zap.String("issue", iss.Message))
		}
	}
	if config.HasErrors(issues) {
		for _, iss := range issues {
			if iss.Severity == config.SeverityError {
				log.Error("config", zap.String("path", iss.Path), zap.String("issue", iss.Message))
			}
		}
		return fmt.Errorf("invalid configuration: %d issue(s)", len(issues))
	}
	return nil
}
