package yatb

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newSample(query *Query, status StatusType, latency time.Duration) *Sample {
	return &Sample{
		Event: &Event{
			Counter: uint64(query.Index),
			Query:   query,
		},
		Status:  status,
		Latency: latency,
		Time:    time.Now(),
	}
}

func TestMeasurementsSnapshots(t *testing.T) {
	m, err := NewMeasurements(NewProperties(), 4, 95)
	require.NoError(t, err)
	start := time.Now()
	m.Start(start)
	q1 := &Query{Index: 1, Name: QueryName(1), Reads: 1}
	q2 := &Query{Index: 2, Name: QueryName(2), Reads: 1, Other: 2}
	for i := 0; i < 18; i++ {
		m.Record(newSample(q1, StatusOK, 2*time.Millisecond))
	}
	m.Record(newSample(q2, StatusQueryError, 10*time.Millisecond))
	lost := newSample(q2, StatusConnectionError, 10*time.Millisecond)
	lost.Reconnect = true
	m.Record(lost)

	s := m.IntervalSnapshot(start.Add(2 * time.Second))
	require.Equal(t, uint64(20), s.Events)
	require.Equal(t, uint64(18), s.Reads)
	require.Equal(t, uint64(0), s.Other)
	require.Equal(t, uint64(2), s.Errors)
	require.Equal(t, uint64(1), s.Reconnects)
	require.Equal(t, 4, s.Threads)
	require.InDelta(t, 2.0, s.Elapsed, 1e-9)
	require.InDelta(t, 10.0, s.Latency, 0.1)

	m.Record(newSample(q1, StatusOK, time.Millisecond))
	s = m.IntervalSnapshot(start.Add(3 * time.Second))
	require.Equal(t, uint64(1), s.Events)
	require.Equal(t, uint64(0), s.Errors)
	require.InDelta(t, 1.0, s.Elapsed, 1e-9)
	require.InDelta(t, 3.0, s.Time, 1e-9)

	total := m.CumulativeSnapshot(start.Add(4 * time.Second))
	require.Equal(t, uint64(21), total.Events)
	require.Equal(t, uint64(19), total.Reads)
	require.Equal(t, uint64(2), total.Errors)
	require.InDelta(t, 4.0, total.Elapsed, 1e-9)
	require.Contains(t, m.GetSummary(), "[Q01: Count=19")
}

func TestMeasurementsInvalidProperties(t *testing.T) {
	p := NewProperties()
	p.Add(PropertyHdrHistogramSig, "9")
	_, err := NewMeasurements(p, 1, 95)
	require.Error(t, err)
}

func TestMeasurementsExport(t *testing.T) {
	m, err := NewMeasurements(NewProperties(), 1, 99)
	require.NoError(t, err)
	start := time.Now()
	m.Start(start)
	q := &Query{Index: 3, Name: QueryName(3), Reads: 1}
	m.Record(newSample(q, StatusOK, time.Millisecond))
	m.Record(newSample(q, StatusConnectionError, time.Millisecond))

	var buf bytes.Buffer
	exporter, err := NewMeasurementExporter("TextMeasurementExporter", NopWriteCloser(&buf))
	require.NoError(t, err)
	require.NoError(t, m.ExportMeasurements(exporter, start.Add(time.Second)))
	require.NoError(t, exporter.Close())
	out := buf.String()
	require.Contains(t, out, "[OVERALL], Events, 2\n")
	require.Contains(t, out, "[OVERALL], Errors, 1\n")
	require.Contains(t, out, "[Q03], Operations, 2\n")
	require.Contains(t, out, "[Q03], 95thPercentileLatency(us), ")
	require.Contains(t, out, "[Q03], Return=OK, 1\n")
	require.Contains(t, out, "[Q03], Return=CONNECTION_ERROR, 1\n")
}

func TestJSONArrayMeasurementExporter(t *testing.T) {
	var buf bytes.Buffer
	exporter, err := NewMeasurementExporter("JSONArrayMeasurementExporter", NopWriteCloser(&buf))
	require.NoError(t, err)
	require.NoError(t, exporter.Write("Q01", "Operations", 3))
	require.NoError(t, exporter.Write("Q01", "AverageLatency(us)", 1.5))
	require.NoError(t, exporter.Close())
	var parsed []innerJSONMeasurement
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed, 2)
	require.Equal(t, "Operations", parsed[0].Measurement)
	require.Equal(t, 1.5, parsed[1].Value)

	buf.Reset()
	exporter, err = NewMeasurementExporter("JSONMeasurementExporter", NopWriteCloser(&buf))
	require.NoError(t, err)
	require.NoError(t, exporter.Write("Q01", "Operations", 3))
	require.NoError(t, exporter.Write("Q02", "Operations", 4))
	require.NoError(t, exporter.Close())
	require.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 2)

	_, err = NewMeasurementExporter("XMLMeasurementExporter", NopWriteCloser(&buf))
	require.Error(t, err)
}

func TestOrdinal(t *testing.T) {
	require.Equal(t, "1st", ordinal(1))
	require.Equal(t, "95th", ordinal(95))
	require.Equal(t, "99.9th", ordinal(99.9))
	require.Equal(t, "12th", ordinal(12))
	require.Equal(t, "22nd", ordinal(22))
}
