package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"arxivdb/internal/schema"
)

// EnvPrefix prefixes environment overrides: storage.db.dsn is read from
// ARXIVDB_STORAGE_DB_DSN.
const EnvPrefix = "ARXIVDB"

// defaults lists every leaf key. Viper only consults the environment for
// keys it already knows, so each configurable key needs an entry here.
var defaults = map[string]any{
	"job": "arxivdb",

	"source.kind":                      "file",
	"source.file.path":                 "",
	"source.http.url":                  "",
	"source.http.timeout_seconds":      0,
	"source.http.max_retries":          3,
	"source.http.insecure_skip_verify": false,
	"source.s3.bucket":                 "",
	"source.s3.key":                    "",
	"source.s3.region":                 "",
	"source.s3.endpoint":               "",
	"source.s3.use_path_style":         false,
	"source.s3.access_key_id":          "",
	"source.s3.secret_access_key":      "",

	"parser.kind": "ndjson",

	"transform.normalize_text": false,

	"storage.kind":                 "sqlite",
	"storage.db.dsn":               "",
	"storage.db.tables.documents":  schema.DefaultDocuments,
	"storage.db.tables.authors":    schema.DefaultAuthors,
	"storage.db.tables.versions":   schema.DefaultVersions,
	"storage.db.auto_create_table": true,

	"runtime.batch_size": 10000,

	"metrics.backend":         "none",
	"metrics.pushgateway_url": "",
	"metrics.datadog_addr":    "",
	"metrics.namespace":       "arxivdb.",
}

// Load assembles a Pipeline. Later layers win: defaults, the config file at
// path (JSON, YAML or TOML by extension; skipped when path is empty),
// ARXIVDB_* environment variables, then overrides keyed by dotted path.
func Load(path string, overrides map[string]any) (Pipeline, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Pipeline{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for k, val := range overrides {
		v.Set(k, val)
	}

	var p Pipeline
	if err := v.Unmarshal(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config: %w", err)
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	return p, nil
}

// LoadDotEnv exports variables from the given .env files (default ".env")
// into the process environment without overwriting existing ones. Missing
// files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// InputOverrides maps a -i argument onto source keys: http(s) URLs select
// the http source, s3://bucket/key selects s3, anything else is a file path.
func InputOverrides(input string) (map[string]any, error) {
	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// len 1 covers Windows drive letters such as C:\data.json.
		return map[string]any{"source.kind": "file", "source.file.path": input}, nil
	}
	switch u.Scheme {
	case "http", "https":
		return map[string]any{"source.kind": "http", "source.http.url": input}, nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("input %q: want s3://bucket/key", input)
		}
		return map[string]any{"source.kind": "s3", "source.s3.bucket": u.Host, "source.s3.key": key}, nil
	case "file":
		return map[string]any{"source.kind": "file", "source.file.path": u.Path}, nil
	default:
		return nil, fmt.Errorf("input %q: unsupported scheme %q", input, u.Scheme)
	}
}
