package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"arxivdb/internal/schema"
)

func newStatsCmd(a *app) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "stats -o <output>",
		Short: "Print row counts of the documents, authors and versions tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.pipeline(cmd, a.cfgPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			repo, err := newRepositoryFn(ctx, p.Storage)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer repo.Close()

			tables := schema.New(p.Storage.DB.Tables).Tables()
			counts := make([]int64, len(tables))
			g, gctx := errgroup.WithContext(ctx)
			for i, t := range tables {
				g.Go(func() error {
					n, err := repo.Count(gctx, t.Name)
					if err != nil {
						return fmt.Errorf("count %s: %w", t.Name, err)
					}
					counts[i] = n
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for i, t := range tables {
				fmt.Fprintf(tw, "%s\t%d\n", t.Name, counts[i])
			}
			return tw.Flush()
		},
	}
	f.register(cmd)
	return cmd
}
