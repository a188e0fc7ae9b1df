package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"arxivdb/internal/config"
	"arxivdb/internal/datasource"
	"arxivdb/internal/datasource/file"
	"arxivdb/internal/datasource/httpds"
	"arxivdb/internal/datasource/s3src"
	"arxivdb/internal/logging"
	"arxivdb/internal/metrics"
	"arxivdb/internal/metrics/datadog"
	"arxivdb/internal/metrics/prompush"
	jsonparser "arxivdb/internal/parser/json"
	"arxivdb/internal/pipeline"
	"arxivdb/internal/schema"
	"arxivdb/internal/storage"
	"arxivdb/internal/transformer"
)

// Test seams.
var (
	openSourceFn    = openSource
	newRepositoryFn = newRepository
)

// openSource opens the configured input stream.
func openSource(ctx context.Context, p config.Pipeline) (io.ReadCloser, error) {
	switch p.Source.Kind {
	case "file":
		return file.NewLocal(p.Source.File.Path).Open(ctx)

	case "http":
		h := p.Source.HTTP
		hdr := http.Header{}
		for k, v := range h.Headers {
			hdr.Set(k, v)
		}
		client := httpds.NewClient(httpds.Config{
			Timeout:            time.Duration(h.TimeoutSeconds) * time.Second,
			MaxRetries:         h.MaxRetries,
			InsecureSkipVerify: h.InsecureSkipVerify,
			Headers:            hdr,
		})
		return httpds.NewSource(h.URL, client).Open(ctx)

	case "s3":
		s := p.Source.S3
		src, err := s3src.New(ctx, s3src.Config{
			Bucket:          s.Bucket,
			Key:             s.Key,
			Region:          s.Region,
			Endpoint:        s.Endpoint,
			UsePathStyle:    s.UsePathStyle,
			AccessKeyID:     s.AccessKeyID,
			SecretAccessKey: s.SecretAccessKey,
		})
		if err != nil {
			return nil, datasource.Unreadable(inputName(p), err)
		}
		return src.Open(ctx)

	default:
		return nil, fmt.Errorf("unsupported source.kind=%s", p.Source.Kind)
	}
}

func inputName(p config.Pipeline) string {
	switch p.Source.Kind {
	case "http":
		return p.Source.HTTP.URL
	case "s3":
		return "s3://" + p.Source.S3.Bucket + "/" + p.Source.S3.Key
	default:
		return p.Source.File.Path
	}
}

func newRepository(ctx context.Context, s config.Storage) (storage.Repository, error) {
	return storage.New(ctx, storage.Config{Kind: s.Kind, DSN: s.DB.DSN})
}

// runLoad executes one complete load described by p. Progress goes to
// progressOut: a spinner on a terminal, log lines otherwise.
func runLoad(ctx context.Context, p config.Pipeline, log *zap.Logger, progressOut io.Writer) (pipeline.Summary, error) {
	log = logging.ForRun(log, p.Job, logging.NewRunID())

	// The input is opened first so a missing input never creates the output.
	raw, err := openSourceFn(ctx, p)
	if err != nil {
		return pipeline.Summary{State: pipeline.StateFailed}, fmt.Errorf("open source: %w", err)
	}
	in, compression, err := datasource.Decompress(raw)
	if err != nil {
		return pipeline.Summary{State: pipeline.StateFailed}, fmt.Errorf("open source: %w", datasource.Unreadable(inputName(p), err))
	}
	defer in.Close()

	repo, err := newRepositoryFn(ctx, p.Storage)
	if err != nil {
		return pipeline.Summary{State: pipeline.StateFailed}, fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	tables := schema.New(p.Storage.DB.Tables)
	if p.Storage.DB.AutoCreateTable {
		if err := storage.EnsureSchema(ctx, p.Storage.Kind, repo, tables); err != nil {
			return pipeline.Summary{State: pipeline.StateFailed}, err
		}
	}

	br, err := jsonparser.NewBatchReader(in, p.Runtime.BatchSize, jsonparser.FromConfigOptions(p.Parser.Options))
	if err != nil {
		return pipeline.Summary{State: pipeline.StateFailed}, err
	}

	log.Info("load starting",
		zap.String("source", p.Source.Kind),
		zap.String("compression", string(compression)),
		zap.String("storage", p.Storage.Kind),
		zap.Int("batch_size", p.Runtime.BatchSize),
		zap.Bool("normalize_text", p.Transform.NormalizeText),
	)

	d := pipeline.New(pipeline.Config{
		Job:        p.Job,
		Tables:     tables,
		Normalizer: transformer.New(transformer.Options{NormalizeText: p.Transform.NormalizeText}),
		Writer:     storage.NewLoader(repo, log),
		Logger:     log,
		Progress:   pipeline.NewProgress(progressOut, log),
	})
	return d.Run(ctx, br.All())
}

// setupMetrics installs the configured backend and returns the function that
// flushes it at the end of the process.
func setupMetrics(p config.Pipeline, log *zap.Logger) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch p.Metrics.Backend {
	case "", "none":
		return func() {}
	case "pushgateway":
		b, err = prompush.NewBackend(p.Job, p.Metrics.PushgatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:      p.Metrics.DatadogAddr,
			Namespace: p.Metrics.Namespace,
			Tags:      []string{"job:" + p.Job},
		})
	default:
		log.Warn("unknown metrics backend; metrics disabled", zap.String("backend", p.Metrics.Backend))
		return func() {}
	}
	if err != nil {
		log.Warn("metrics backend init failed; metrics disabled", zap.String("backend", p.Metrics.Backend), zap.Error(err))
		return func() {}
	}

	metrics.SetBackend(b)
	log.Debug("metrics enabled", zap.String("backend", p.Metrics.Backend))
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics flush failed", zap.Error(err))
		}
	}
}
