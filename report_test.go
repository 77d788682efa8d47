package yatb

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func scenarioSnapshot() *Snapshot {
	return &Snapshot{
		Time:       10,
		Elapsed:    10,
		Threads:    4,
		Events:     1000,
		Reads:      400,
		Writes:     300,
		Other:      300,
		Errors:     5,
		Reconnects: 1,
		Latency:    12.34,
		Percentile: 95,
	}
}

func TestReporterHumanCumulative(t *testing.T) {
	line, err := NewReporter(false).RenderCumulative(scenarioSnapshot())
	require.NoError(t, err)
	require.Equal(t,
		"[ total 10s ] thds: 4 tps: 100.00 qps: 100.00 (r/w/o: 40.00/30.00/30.00) lat (ms,95%): 12.34 err/s: 0.50 reconn/s: 0.10",
		line)
}

func TestReporterHumanInterval(t *testing.T) {
	s := scenarioSnapshot()
	s.Time = 30
	line, err := NewReporter(false).RenderInterval(s)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "[ 30s ] thds: 4 tps: 100.00 "), line)
}

func TestReporterZeroElapsed(t *testing.T) {
	s := scenarioSnapshot()
	s.Elapsed = 0
	line, err := NewReporter(false).RenderCumulative(s)
	require.NoError(t, err)
	require.Contains(t, line, "tps: 0.00 qps: 0.00 (r/w/o: 0.00/0.00/0.00)")
	require.Contains(t, line, "err/s: 0.00 reconn/s: 0.00")

	out, err := NewReporter(true).RenderCumulative(s)
	require.NoError(t, err)
	var reports []JSONReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	require.Equal(t, float64(0), reports[0].TPS)
	require.Equal(t, float64(0), reports[0].QPS.Total)
}

func TestReporterJSON(t *testing.T) {
	out, err := NewReporter(true).RenderInterval(scenarioSnapshot())
	require.NoError(t, err)
	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	require.Len(t, raw, 1)
	for _, key := range []string{"time", "threads", "tps", "qps", "latency", "errors", "reconnects"} {
		require.Contains(t, raw[0], key)
	}
	qps, ok := raw[0]["qps"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"total", "reads", "writes", "other"} {
		require.Contains(t, qps, key)
	}
	require.InDelta(t, 100.0, raw[0]["tps"], 1e-9)
	require.InDelta(t, 40.0, qps["reads"], 1e-9)
	require.InDelta(t, 0.5, raw[0]["errors"], 1e-9)
}

func TestReporterJSONRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := &Snapshot{
			Time:       rapid.Float64Range(0, 1e6).Draw(t, "time"),
			Elapsed:    rapid.Float64Range(0.001, 1e6).Draw(t, "elapsed"),
			Threads:    rapid.IntRange(1, 1024).Draw(t, "threads"),
			Events:     rapid.Uint64Range(0, 1e12).Draw(t, "events"),
			Reads:      rapid.Uint64Range(0, 1e12).Draw(t, "reads"),
			Writes:     rapid.Uint64Range(0, 1e12).Draw(t, "writes"),
			Other:      rapid.Uint64Range(0, 1e12).Draw(t, "other"),
			Errors:     rapid.Uint64Range(0, 1e12).Draw(t, "errors"),
			Reconnects: rapid.Uint64Range(0, 1e12).Draw(t, "reconnects"),
			Latency:    rapid.Float64Range(0, 1e6).Draw(t, "latency"),
			Percentile: 95,
		}
		out, err := NewReporter(true).RenderCumulative(s)
		if err != nil {
			t.Fatalf("render: %s", err)
		}
		var reports []JSONReport
		if err := json.Unmarshal([]byte(out), &reports); err != nil {
			t.Fatalf("parse %s: %s", out, err)
		}
		r := reports[0]
		near := func(name string, expected, actual float64) {
			if math.Abs(expected-actual) > 1e-9*math.Max(1, math.Abs(expected)) {
				t.Fatalf("%s: expected %v, got %v", name, expected, actual)
			}
		}
		near("time", s.Time, r.Time)
		near("tps", float64(s.Events)/s.Elapsed, r.TPS)
		near("qps.total", float64(s.Reads+s.Writes+s.Other)/s.Elapsed, r.QPS.Total)
		near("qps.reads", float64(s.Reads)/s.Elapsed, r.QPS.Reads)
		near("qps.writes", float64(s.Writes)/s.Elapsed, r.QPS.Writes)
		near("qps.other", float64(s.Other)/s.Elapsed, r.QPS.Other)
		near("latency", s.Latency, r.Latency)
		near("errors", float64(s.Errors)/s.Elapsed, r.Errors)
		near("reconnects", float64(s.Reconnects)/s.Elapsed, r.Reconnects)
		if r.Threads != s.Threads {
			t.Fatalf("threads: expected %d, got %d", s.Threads, r.Threads)
		}
	})
}
