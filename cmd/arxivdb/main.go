// Command arxivdb loads the arXiv metadata feed into a relational database.
//
//	arxivdb load -i arxiv-metadata-oai-snapshot.json -o arxiv.db
//	arxivdb load --config pipeline.yaml -i s3://arxiv/snapshot.json.zst
//	arxivdb validate --config pipeline.yaml
//	arxivdb stats -o arxiv.db
//	arxivdb schedule --cron "0 3 * * *" -i https://example.org/snapshot.json.gz -o arxiv.db
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"arxivdb/internal/config"
	"arxivdb/internal/logging"

	// register all backends with the storage factory.
	_ "arxivdb/internal/storage/all"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	cfgPath  string
	envFiles []string
	verbose  bool
	log      *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "arxivdb",
		Short:         "Load the arXiv metadata feed into documents, authors and versions tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(a.envFiles...); err != nil {
				return err
			}
			log, err := logging.New(logging.Options{Development: a.verbose})
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "pipeline config file (json, yaml or toml)")
	pf.StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load before reading ARXIVDB_* variables (default .env)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "development logging at debug level")

	root.AddCommand(
		newLoadCmd(a),
		newValidateCmd(a),
		newStatsCmd(a),
		newScheduleCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "arxivdb:", err)
		os.Exit(1)
	}
}
