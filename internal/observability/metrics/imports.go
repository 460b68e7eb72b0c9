// Package metrics defines the standardised metric shapes emitted by the
// import pipeline workers.
package metrics

import (
	"time"

	"github.com/drivelot/inventory-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// StageMetric captures one pipeline stage execution for metric emission.
type StageMetric struct {
	Stage    string // parse, commit, sync
	Result   string
	Duration time.Duration
	Rows     int
}

// EmitStage emits standardised import stage metrics.
func EmitStage(sink statsd.Sink, in StageMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"stage":  in.Stage,
		"result": in.Result,
	}

	sink.Count("import.stage", 1, tags)
	if in.Duration > 0 {
		sink.Timing("import.stage_duration", in.Duration, tags)
	}
	if in.Rows > 0 {
		sink.Gauge("import.stage_rows", float64(in.Rows), tags)
	}
}

// EmitStaleReaped counts jobs failed by the staleness reaper.
func EmitStaleReaped(sink statsd.Sink, count int64) {
	if sink == nil || count == 0 {
		return
	}
	sink.Count("import.stale_reaped", count, nil)
}
