package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arxivdb/internal/config"
)

func newValidateCmd(a *app) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the effective configuration without loading anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.pipeline(cmd, a.cfgPath)
			if err != nil {
				return err
			}
			issues := config.ValidatePipeline(p)
			out := cmd.OutOrStdout()
			for _, iss := range issues {
				fmt.Fprintf(out, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
			}
			if config.HasErrors(issues) {
				return fmt.Errorf("configuration is invalid")
			}
			fmt.Fprintln(out, "configuration is valid")
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
