package yatb

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Sample is the outcome of one executed event, as handed to the listeners.
type Sample struct {
	RoutineID int
	Event     *Event
	Status    StatusType
	// Whether the connection was found lost during the event.
	Reconnect bool
	Latency   time.Duration
	// When the event finished.
	Time time.Time
}

// SampleListener consumes the samples of a run. It's called concurrently
// by all the client routines.
type SampleListener interface {
	Record(sample *Sample)
}

// Snapshot is the statistics of a run over some period.
type Snapshot struct {
	// Seconds since the run started.
	Time float64
	// Seconds the statistics were collected over. All rates are per second
	// of it.
	Elapsed    float64
	Threads    int
	Events     uint64
	Reads      uint64
	Writes     uint64
	Other      uint64
	Errors     uint64
	Reconnects uint64
	// The latency at Percentile in milliseconds.
	Latency    float64
	Percentile float64
}

type counters struct {
	events     uint64
	reads      uint64
	writes     uint64
	other      uint64
	errors     uint64
	reconnects uint64
}

func (self *counters) add(sample *Sample) {
	self.events++
	if sample.Status == StatusOK {
		// Only the statements of a successful query count as executed.
		query := sample.Event.Query
		self.reads += uint64(query.Reads)
		self.writes += uint64(query.Writes)
		self.other += uint64(query.Other)
	} else {
		self.errors++
	}
	if sample.Reconnect {
		self.reconnects++
	}
}

// Measurements aggregates the samples of a run into cumulative and
// interval statistics, and keeps a hdr histogram per catalog query.
type Measurements struct {
	props      Properties
	threads    int
	percentile float64

	lock        sync.Mutex
	start       time.Time
	windowStart time.Time
	total       counters
	window      counters
	totalHist   *hdrhistogram.Histogram
	windowHist  *hdrhistogram.Histogram

	queryLock sync.RWMutex
	queries   map[string]OneMeasurement
}

func NewMeasurements(props Properties, threads int, percentile float64) (*Measurements, error) {
	max, sig, err := histogramRange(props)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Measurements{
		props:       props,
		threads:     threads,
		percentile:  percentile,
		start:       now,
		windowStart: now,
		totalHist:   hdrhistogram.New(1, max, sig),
		windowHist:  hdrhistogram.New(1, max, sig),
		queries:     make(map[string]OneMeasurement),
	}, nil
}

// Start resets the statistics and marks the start of the run.
func (self *Measurements) Start(now time.Time) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.start = now
	self.windowStart = now
	self.total = counters{}
	self.window = counters{}
	self.totalHist.Reset()
	self.windowHist.Reset()
}

func (self *Measurements) Record(sample *Sample) {
	latency := NanosecondToMicrosecond(sample.Latency.Nanoseconds())
	self.lock.Lock()
	self.total.add(sample)
	self.window.add(sample)
	recordLatency(self.totalHist, latency)
	recordLatency(self.windowHist, latency)
	self.lock.Unlock()

	m, err := self.getQueryMeasurement(sample.Event.Query.Name)
	if err != nil {
		Warnf("fail to measure %s: %s", sample.Event.Query.Name, err)
		return
	}
	m.Measure(latency)
	m.ReportStatus(sample.Status)
}

func (self *Measurements) getQueryMeasurement(name string) (OneMeasurement, error) {
	self.queryLock.RLock()
	m, ok := self.queries[name]
	self.queryLock.RUnlock()
	if ok {
		return m, nil
	}
	self.queryLock.Lock()
	defer self.queryLock.Unlock()
	if m, ok = self.queries[name]; ok {
		return m, nil
	}
	m, err := NewOneMeasurementHdrHistogram(name, self.props)
	if err != nil {
		return nil, err
	}
	self.queries[name] = m
	return m, nil
}

func (self *Measurements) snapshot(c *counters, h *hdrhistogram.Histogram, now, since time.Time) *Snapshot {
	return &Snapshot{
		Time:       now.Sub(self.start).Seconds(),
		Elapsed:    now.Sub(since).Seconds(),
		Threads:    self.threads,
		Events:     c.events,
		Reads:      c.reads,
		Writes:     c.writes,
		Other:      c.other,
		Errors:     c.errors,
		Reconnects: c.reconnects,
		Latency:    MicrosecondToMillisecond(h.ValueAtQuantile(self.percentile)),
		Percentile: self.percentile,
	}
}

// IntervalSnapshot returns the statistics since the last interval snapshot,
// and starts a new interval.
func (self *Measurements) IntervalSnapshot(now time.Time) *Snapshot {
	self.lock.Lock()
	defer self.lock.Unlock()
	s := self.snapshot(&self.window, self.windowHist, now, self.windowStart)
	self.window = counters{}
	self.windowHist.Reset()
	self.windowStart = now
	return s
}

// CumulativeSnapshot returns the statistics since the start of the run.
func (self *Measurements) CumulativeSnapshot(now time.Time) *Snapshot {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.snapshot(&self.total, self.totalHist, now, self.start)
}

func (self *Measurements) sortedQueries() []OneMeasurement {
	self.queryLock.RLock()
	defer self.queryLock.RUnlock()
	ret := make([]OneMeasurement, 0, len(self.queries))
	for _, m := range self.queries {
		ret = append(ret, m)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].GetName() < ret[j].GetName()
	})
	return ret
}

// GetSummary returns a one line summary of every query measured so far.
func (self *Measurements) GetSummary() string {
	queries := self.sortedQueries()
	parts := make([]string, 0, len(queries))
	for _, m := range queries {
		if s := m.GetSummary(); len(s) > 0 {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ExportMeasurements writes the run totals followed by the per query
// measurements to the exporter.
func (self *Measurements) ExportMeasurements(exporter MeasurementExporter, now time.Time) error {
	s := self.CumulativeSnapshot(now)
	overall := []struct {
		name  string
		value interface{}
	}{
		{"RunTime(ms)", int64(s.Elapsed * 1000)},
		{"Events", s.Events},
		{"Throughput(ops/sec)", perSecond(s.Events, s.Elapsed)},
		{"Errors", s.Errors},
		{"Reconnects", s.Reconnects},
		{fmt.Sprintf("%sPercentileLatency(ms)", ordinal(s.Percentile)), s.Latency},
	}
	for _, o := range overall {
		if err := exporter.Write("OVERALL", o.name, o.value); err != nil {
			return err
		}
	}
	for _, m := range self.sortedQueries() {
		if err := m.ExportMeasurements(exporter); err != nil {
			return err
		}
	}
	return nil
}
