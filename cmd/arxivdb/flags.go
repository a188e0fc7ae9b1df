package main

import (
	"github.com/spf13/cobra"

	"arxivdb/internal/config"
)

// runFlags are the flags shared by load, validate and schedule. Only flags
// the user actually set override the config file and environment.
type runFlags struct {
	input          string
	output         string
	storageKind    string
	job            string
	batchSize      int
	normalizeText  bool
	metricsBackend string
	pushgatewayURL string
}

func (f *runFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.input, "input", "i", "", "input feed: file path, http(s) URL or s3://bucket/key")
	fs.StringVarP(&f.output, "output", "o", "", "output database DSN (a file path for sqlite)")
	fs.StringVar(&f.storageKind, "storage", "", "storage kind: sqlite, postgres, mysql or mssql")
	fs.StringVar(&f.job, "job", "", "job name for logs and metrics")
	fs.IntVar(&f.batchSize, "batch-size", 0, "records per batch")
	fs.BoolVar(&f.normalizeText, "normalize-text", false, "NFC-normalize and trim text fields")
	fs.StringVar(&f.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog")
	fs.StringVar(&f.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL")
}

// overrides maps the changed flags onto config keys.
func (f *runFlags) overrides(cmd *cobra.Command) (map[string]any, error) {
	out := map[string]any{}
	changed := cmd.Flags().Changed

	if changed("input") {
		in, err := config.InputOverrides(f.input)
		if err != nil {
			return nil, err
		}
		for k, v := range in {
			out[k] = v
		}
	}
	if changed("output") {
		out["storage.db.dsn"] = f.output
	}
	if changed("storage") {
		out["storage.kind"] = f.storageKind
	}
	if changed("job") {
		out["job"] = f.job
	}
	if changed("batch-size") {
		out["runtime.batch_size"] = f.batchSize
	}
	if changed("normalize-text") {
		out["transform.normalize_text"] = f.normalizeText
	}
	if changed("metrics-backend") {
		out["metrics.backend"] = f.metricsBackend
	}
	if changed("pushgateway-url") {
		out["metrics.pushgateway_url"] = f.pushgatewayURL
	}
	return out, nil
}

// pipeline loads the config file and environment and applies the flags.
func (f *runFlags) pipeline(cmd *cobra.Command, cfgPath string) (config.Pipeline, error) {
	ov, err := f.overrides(cmd)
	if err != nil {
		return config.Pipeline{}, err
	}
	return config.Load(cfgPath, ov)
}
