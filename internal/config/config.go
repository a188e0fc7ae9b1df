// Package config defines the run description for the loader and how it is
// assembled from defaults, an optional config file, the environment and
// command-line overrides.
//
// Example (YAML, trimmed):
//
//	job: arxiv-nightly
//	source:
//	  kind: s3
//	  s3: { bucket: arxiv, key: arxiv-metadata-oai-snapshot.json.zst, region: us-east-1 }
//	parser: { kind: ndjson, options: { max_line_bytes: 16777216 } }
//	storage:
//	  kind: postgres
//	  db: { dsn: "postgres://arxiv@db/arxiv", tables: { documents: public.documents } }
//	runtime: { batch_size: 10000 }
package config

import (
	"encoding/json"

	"arxivdb/internal/schema"
)

// Pipeline is the complete description of one load run. Field names mirror
// the JSON/YAML keys; mapstructure tags let viper decode into it.
type Pipeline struct {
	// Job labels logs and metrics.
	Job       string        `json:"job" mapstructure:"job"`
	Source    Source        `json:"source" mapstructure:"source"`
	Parser    Parser        `json:"parser" mapstructure:"parser"`
	Transform Transform     `json:"transform" mapstructure:"transform"`
	Storage   Storage       `json:"storage" mapstructure:"storage"`
	Runtime   RuntimeConfig `json:"runtime" mapstructure:"runtime"`
	Metrics   Metrics       `json:"metrics" mapstructure:"metrics"`
}

// Source identifies where the NDJSON feed comes from.
type Source struct {
	// Kind is one of "file", "http" or "s3".
	Kind string     `json:"kind" mapstructure:"kind"`
	File SourceFile `json:"file" mapstructure:"file"`
	HTTP SourceHTTP `json:"http" mapstructure:"http"`
	S3   SourceS3   `json:"s3" mapstructure:"s3"`
}

// SourceFile is a local path, possibly gzip or zstd compressed.
type SourceFile struct {
	Path string `json:"path" mapstructure:"path"`
}

// SourceHTTP fetches the feed with retry on transient failures.
type SourceHTTP struct {
	URL                string            `json:"url" mapstructure:"url"`
	TimeoutSeconds     int               `json:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxRetries         int               `json:"max_retries" mapstructure:"max_retries"`
	InsecureSkipVerify bool              `json:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
	Headers            map[string]string `json:"headers" mapstructure:"headers"`
}

// SourceS3 names one object in an S3 or S3-compatible bucket.
type SourceS3 struct {
	Bucket          string `json:"bucket" mapstructure:"bucket"`
	Key             string `json:"key" mapstructure:"key"`
	Region          string `json:"region" mapstructure:"region"`
	Endpoint        string `json:"endpoint" mapstructure:"endpoint"`
	UsePathStyle    bool   `json:"use_path_style" mapstructure:"use_path_style"`
	AccessKeyID     string `json:"access_key_id" mapstructure:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" mapstructure:"secret_access_key"`
}

// Parser selects the record decoder. Only "ndjson" exists; its options are
// read by parser/json.FromConfigOptions.
type Parser struct {
	Kind    string  `json:"kind" mapstructure:"kind"`
	Options Options `json:"options" mapstructure:"options"`
}

// Transform configures the normalizer.
type Transform struct {
	// NormalizeText NFC-normalizes and trims document strings and author
	// names.
	NormalizeText bool `json:"normalize_text" mapstructure:"normalize_text"`
}

// Storage selects the target database.
type Storage struct {
	// Kind is a registered storage kind: sqlite, postgres, mysql or mssql.
	Kind string   `json:"kind" mapstructure:"kind"`
	DB   DBConfig `json:"db" mapstructure:"db"`
}

// DBConfig configures the target database connection and tables.
type DBConfig struct {
	// DSN is the driver connection string. For sqlite it is a file path
	// or a file: URI.
	DSN string `json:"dsn" mapstructure:"dsn"`

	// Tables overrides the three table names; empty names keep defaults.
	Tables schema.Names `json:"tables" mapstructure:"tables"`

	// AutoCreateTable creates missing tables before the first batch.
	AutoCreateTable bool `json:"auto_create_table" mapstructure:"auto_create_table"`
}

// RuntimeConfig controls batching.
type RuntimeConfig struct {
	BatchSize int `json:"batch_size" mapstructure:"batch_size"`
}

// Metrics selects the metrics backend: "", "none", "pushgateway" or
// "datadog".
type Metrics struct {
	Backend        string `json:"backend" mapstructure:"backend"`
	PushgatewayURL string `json:"pushgateway_url" mapstructure:"pushgateway_url"`
	DatadogAddr    string `json:"datadog_addr" mapstructure:"datadog_addr"`
	Namespace      string `json:"namespace" mapstructure:"namespace"`
}

// Options is a free-form bag interpreted by the parser. It does minimal
// type coercion and falls back to the caller's default when a key is absent
// or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers arrive as float64,
// YAML numbers as int, so both are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case int64:
			return int(n)
		}
	}
	return def
}

// UnmarshalJSON makes a missing or null "options" object decode to a
// non-nil empty map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
