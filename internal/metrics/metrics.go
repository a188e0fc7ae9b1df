// Package metrics records loader counters and step timings behind a
// pluggable backend. The default backend discards everything, so callers
// never need to check whether metrics are configured.
package metrics

import "time"

// Metric names shared by every backend.
const (
	StepTotal           = "arxivdb_step_total"
	StepDurationSeconds = "arxivdb_step_duration_seconds"
	RowsTotal           = "arxivdb_rows_total"
	BatchesTotal        = "arxivdb_batches_total"
)

// Row kinds reported under RowsTotal.
const (
	KindWritten = "written"
	KindSkipped = "skipped"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is implemented by prompush and datadog.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes buffered metrics at the end of a run.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs b. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep counts one execution of step and observes its duration.
// Steps are "read", "normalize" and "write_<table>".
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}
	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRows adds delta rows of kind (KindWritten or KindSkipped) for table.
func RecordRows(job, table, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{
		"job":   job,
		"table": table,
		"kind":  kind,
	})
}

// RecordBatches counts processed input batches.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}
