package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"arxivdb/internal/config"
	"arxivdb/internal/datasource"
)

// feedLine renders one NDJSON record with two authors and one version.
func feedLine(id string) string {
	return fmt.Sprintf(`{"id":%q,"submitter":"Someone","authors":"A. One, B. Two","title":"Paper %s",`+
		`"comments":null,"journal-ref":null,"doi":null,"report-no":null,"categories":"hep-ph","license":null,`+
		`"abstract":"  text  ","versions":[{"version":"v1","created":"Mon, 2 Apr 2007 19:18:42 GMT"}],`+
		`"update_date":"2008-11-13","authors_parsed":[["One","A.",""],["Two","B.",""]]}`, id, id)
}

func feed(ids ...string) string {
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(feedLine(id))
		b.WriteByte('\n')
	}
	return b.String()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func openDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func idStats(t *testing.T, db *sql.DB, table string) (n, lo, hi int64) {
	t.Helper()
	q := fmt.Sprintf("SELECT COUNT(*), COALESCE(MIN(id), -1), COALESCE(MAX(id), -1) FROM %s", table)
	if err := db.QueryRow(q).Scan(&n, &lo, &hi); err != nil {
		t.Fatalf("query %s: %v", table, err)
	}
	return n, lo, hi
}

func TestLoad_E2E_TwoBatchesThenRerun(t *testing.T) {
	t.Parallel()

	in := writeFile(t, "arxiv.json", []byte(feed("0704.0001", "0704.0002", "0704.0003", "0704.0004", "0704.0005")))
	out := filepath.Join(t.TempDir(), "arxiv.db")

	for run := 1; run <= 2; run++ {
		if _, err := execute(t, "load", "-i", in, "-o", out, "--batch-size", "3"); err != nil {
			t.Fatalf("run %d: load: %v", run, err)
		}

		db := openDB(t, out)
		if n, lo, hi := idStats(t, db, "authors"); n != 10 || lo != 0 || hi != 9 {
			t.Fatalf("run %d: authors count/min/max = %d/%d/%d; want 10/0/9", run, n, lo, hi)
		}
		if n, lo, hi := idStats(t, db, "versions"); n != 5 || lo != 0 || hi != 4 {
			t.Fatalf("run %d: versions count/min/max = %d/%d/%d; want 5/0/4", run, n, lo, hi)
		}
		var docs int
		if err := db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&docs); err != nil || docs != 5 {
			t.Fatalf("run %d: documents = %d, %v; want 5", run, docs, err)
		}
	}
}

func TestLoad_E2E_GzipInputAndNormalize(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = io.WriteString(zw, feed("a", "b"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	in := writeFile(t, "arxiv.json.gz", buf.Bytes())
	out := filepath.Join(t.TempDir(), "arxiv.db")

	if _, err := execute(t, "load", "-i", in, "-o", out, "--normalize-text"); err != nil {
		t.Fatalf("load: %v", err)
	}

	var abstract string
	if err := openDB(t, out).QueryRow("SELECT abstract FROM documents WHERE id = 'a'").Scan(&abstract); err != nil {
		t.Fatalf("query: %v", err)
	}
	if abstract != "text" {
		t.Fatalf("abstract = %q; want trimmed %q", abstract, "text")
	}
}

func TestLoad_MissingInputLeavesNoOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "arxiv.db")
	_, err := execute(t, "load", "-i", filepath.Join(dir, "missing.json"), "-o", out)
	if !errors.Is(err, datasource.ErrSourceNotFound) {
		t.Fatalf("err = %v; want ErrSourceNotFound", err)
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("output exists after failed load (stat err %v)", statErr)
	}
}

func TestLoad_MalformedLineFails(t *testing.T) {
	t.Parallel()

	in := writeFile(t, "bad.json", []byte(feedLine("ok")+"\n[1,2,3]\n"))
	out := filepath.Join(t.TempDir(), "arxiv.db")
	_, err := execute(t, "load", "-i", in, "-o", out)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("err = %v; want malformed record at line 2", err)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	in := writeFile(t, "arxiv.json", []byte(feed("a")))
	_, err := execute(t, "load", "-i", in, "-o", "x.db", "--batch-size", "0")
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("err = %v; want invalid configuration", err)
	}
}

func TestValidateCmd(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "validate", "-i", "in.json", "-o", "out.db")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "configuration is valid") {
		t.Fatalf("output = %q", out)
	}

	out, err = execute(t, "validate", "-i", "in.json")
	if err == nil {
		t.Fatalf("validate without output: error = nil")
	}
	if !strings.Contains(out, "error: storage.db.dsn") {
		t.Fatalf("output = %q; want storage.db.dsn issue", out)
	}
}

func TestStatsCmd(t *testing.T) {
	t.Parallel()

	in := writeFile(t, "arxiv.json", []byte(feed("a", "b", "c")))
	db := filepath.Join(t.TempDir(), "arxiv.db")
	if _, err := execute(t, "load", "-i", in, "-o", db); err != nil {
		t.Fatalf("load: %v", err)
	}

	out, err := execute(t, "stats", "-o", db)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"documents  3", "authors    6", "versions   3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("stats output %q missing %q", out, want)
		}
	}
}

func TestOpenSource_HTTP(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = io.WriteString(w, feed("a"))
	}))
	defer srv.Close()

	p := config.Pipeline{Source: config.Source{Kind: "http", HTTP: config.SourceHTTP{
		URL:     srv.URL,
		Headers: map[string]string{"authorization": "Bearer t"},
	}}}
	rc, err := openSource(context.Background(), p)
	if err != nil {
		t.Fatalf("openSource: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != feed("a") {
		t.Fatalf("body = %q", b)
	}

	if _, err := openSource(context.Background(), config.Pipeline{Source: config.Source{Kind: "ftp"}}); err == nil {
		t.Fatalf("openSource(ftp) error = nil")
	}
}

func TestRunFlags_OnlyChangedFlagsOverride(t *testing.T) {
	t.Parallel()

	var f runFlags
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	f.register(cmd)
	if err := cmd.ParseFlags([]string{"-i", "s3://bucket/key.json", "--batch-size", "5"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	ov, err := f.overrides(cmd)
	if err != nil {
		t.Fatalf("overrides: %v", err)
	}
	want := map[string]any{
		"source.kind":        "s3",
		"source.s3.bucket":   "bucket",
		"source.s3.key":      "key.json",
		"runtime.batch_size": 5,
	}
	if fmt.Sprint(ov) != fmt.Sprint(want) {
		t.Fatalf("overrides = %v; want %v", ov, want)
	}
}

func TestNewScheduler(t *testing.T) {
	t.Parallel()

	if _, err := newScheduler("every tuesday", func() {}, zapNop()); err == nil {
		t.Fatalf("newScheduler(bad) error = nil")
	}
	c, err := newScheduler("@every 1h", func() {}, zapNop())
	if err != nil {
		t.Fatalf("newScheduler: %v", err)
	}
	if got := len(c.Entries()); got != 1 {
		t.Fatalf("entries = %d; want 1", got)
	}
}
