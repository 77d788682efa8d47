package yatb

import (
	"encoding/json"
	"fmt"
)

// perSecond returns the rate of count over elapsed seconds, 0 when no
// time elapsed.
func perSecond(count uint64, elapsed float64) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(count) / elapsed
}

type jsonQPS struct {
	Total  float64 `json:"total"`
	Reads  float64 `json:"reads"`
	Writes float64 `json:"writes"`
	Other  float64 `json:"other"`
}

// JSONReport is one element of the JSON report array.
type JSONReport struct {
	Time       float64 `json:"time"`
	Threads    int     `json:"threads"`
	TPS        float64 `json:"tps"`
	QPS        jsonQPS `json:"qps"`
	Latency    float64 `json:"latency"`
	Errors     float64 `json:"errors"`
	Reconnects float64 `json:"reconnects"`
}

// Reporter renders the snapshots of a run either as human readable lines
// or as JSON arrays.
type Reporter struct {
	json bool
}

func NewReporter(json bool) *Reporter {
	return &Reporter{
		json: json,
	}
}

func (self *Reporter) render(prefix string, s *Snapshot) (string, error) {
	queries := s.Reads + s.Writes + s.Other
	if self.json {
		report := []JSONReport{{
			Time:    s.Time,
			Threads: s.Threads,
			TPS:     perSecond(s.Events, s.Elapsed),
			QPS: jsonQPS{
				Total:  perSecond(queries, s.Elapsed),
				Reads:  perSecond(s.Reads, s.Elapsed),
				Writes: perSecond(s.Writes, s.Elapsed),
				Other:  perSecond(s.Other, s.Elapsed),
			},
			Latency:    s.Latency,
			Errors:     perSecond(s.Errors, s.Elapsed),
			Reconnects: perSecond(s.Reconnects, s.Elapsed),
		}}
		b, err := json.Marshal(report)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return fmt.Sprintf("[ %s%.0fs ] thds: %d tps: %.2f qps: %.2f (r/w/o: %.2f/%.2f/%.2f) lat (ms,%g%%): %.2f err/s: %.2f reconn/s: %.2f",
		prefix,
		s.Time,
		s.Threads,
		perSecond(s.Events, s.Elapsed),
		perSecond(queries, s.Elapsed),
		perSecond(s.Reads, s.Elapsed),
		perSecond(s.Writes, s.Elapsed),
		perSecond(s.Other, s.Elapsed),
		s.Percentile,
		s.Latency,
		perSecond(s.Errors, s.Elapsed),
		perSecond(s.Reconnects, s.Elapsed)), nil
}

// RenderInterval renders the statistics of one reporting interval.
func (self *Reporter) RenderInterval(s *Snapshot) (string, error) {
	return self.render("", s)
}

// RenderCumulative renders the statistics of the whole run.
func (self *Reporter) RenderCumulative(s *Snapshot) (string, error) {
	return self.render("total ", s)
}
