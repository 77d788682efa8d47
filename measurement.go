package yatb

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/pkg/errors"
)

// StatusType is the outcome of one event.
type StatusType uint8

const (
	StatusOK StatusType = 1 + iota
	// The query was sent but failed, or produced no usable result.
	StatusQueryError
	// No connection could be acquired for the event.
	StatusConnectionError
)

func (self StatusType) String() string {
	switch self {
	case StatusOK:
		return "OK"
	case StatusQueryError:
		return "QUERY_ERROR"
	case StatusConnectionError:
		return "CONNECTION_ERROR"
	default:
		return "UNKNOWN_STATUS"
	}
}

// Used to export the collected measurements into a useful format, for example
// human readable text or machine readable JSON.
type MeasurementExporter interface {
	// Write a measurement to the exported format. v should be int64 or float64
	Write(metric string, measurement string, v interface{}) error
	io.Closer
}

type MakeMeasurementExporterFunc func(w io.WriteCloser) MeasurementExporter

var (
	MeasurementExporters map[string]MakeMeasurementExporterFunc
)

func init() {
	MeasurementExporters = map[string]MakeMeasurementExporterFunc{
		"TextMeasurementExporter": func(w io.WriteCloser) MeasurementExporter {
			return NewTextMeasurementExporter(w)
		},
		"JSONMeasurementExporter": func(w io.WriteCloser) MeasurementExporter {
			return NewJSONMeasurementExporter(w)
		},
		"JSONArrayMeasurementExporter": func(w io.WriteCloser) MeasurementExporter {
			return NewJSONArrayMeasurementExporter(w)
		},
	}
}

func NewMeasurementExporter(className string, w io.WriteCloser) (MeasurementExporter, error) {
	f, ok := MeasurementExporters[className]
	if !ok {
		return nil, errors.Errorf("unsupported measurement exporter: %s", className)
	}
	return f(w), nil
}

// A single measured metric, such as the latency of one catalog query.
type OneMeasurement interface {
	// Measure records a latency in microseconds.
	Measure(latency int64)
	GetName() string
	GetSummary() string
	// Report a return code.
	ReportStatus(status StatusType)
	// Exports the current measurements to a suitable format.
	ExportMeasurements(exporter MeasurementExporter) error
}

type OneMeasurementBase struct {
	Name            string
	ReturnCodes     map[StatusType]uint64
	ReturnCodesLock sync.Mutex
}

func NewOneMeasurementBase(name string) *OneMeasurementBase {
	return &OneMeasurementBase{
		Name:        name,
		ReturnCodes: make(map[StatusType]uint64),
	}
}

func (self *OneMeasurementBase) GetName() string {
	return self.Name
}

func (self *OneMeasurementBase) ReportStatus(status StatusType) {
	self.ReturnCodesLock.Lock()
	defer self.ReturnCodesLock.Unlock()
	self.ReturnCodes[status]++
}

func (self *OneMeasurementBase) ExportStatusCounts(exporter MeasurementExporter) error {
	self.ReturnCodesLock.Lock()
	statuses := make([]StatusType, 0, len(self.ReturnCodes))
	for status := range self.ReturnCodes {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i] < statuses[j]
	})
	counts := make([]uint64, 0, len(statuses))
	for _, status := range statuses {
		counts = append(counts, self.ReturnCodes[status])
	}
	self.ReturnCodesLock.Unlock()
	for i, status := range statuses {
		err := exporter.Write(self.GetName(), fmt.Sprintf("Return=%s", status), counts[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// Take measurements and maintain a HdrHistogram of a given metric.
type OneMeasurementHdrHistogram struct {
	*OneMeasurementBase
	lock        sync.Mutex
	histogram   *hdrhistogram.Histogram
	percentiles []float64
}

// Helper function to parse the given percentile value string.
func parsePercentileValues(prop, defaultValue string) []float64 {
	parts := strings.Split(prop, ",")
	ret := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v <= 0 || v > 100 {
			if prop == defaultValue {
				return nil
			}
			return parsePercentileValues(defaultValue, defaultValue)
		}
		ret = append(ret, v)
	}
	return ret
}

// histogramRange reads the hdr histogram bounds from the properties.
func histogramRange(props Properties) (max int64, sig int, err error) {
	prop := props.GetDefault(PropertyHdrHistogramMax, PropertyHdrHistogramMaxDefault)
	max, err = strconv.ParseInt(prop, 0, 64)
	if err != nil || max <= 0 {
		return 0, 0, errors.Errorf("invalid %s: %q", PropertyHdrHistogramMax, prop)
	}
	prop = props.GetDefault(PropertyHdrHistogramSig, PropertyHdrHistogramSigDefault)
	s, err := strconv.ParseInt(prop, 0, 64)
	if err != nil || s < 1 || s > 5 {
		return 0, 0, errors.Errorf("invalid %s: %q", PropertyHdrHistogramSig, prop)
	}
	return max, int(s), nil
}

func NewOneMeasurementHdrHistogram(name string, props Properties) (*OneMeasurementHdrHistogram, error) {
	prop := props.GetDefault(PropertyPercentiles, PropertyPercentilesDefault)
	percentiles := parsePercentileValues(prop, PropertyPercentilesDefault)
	max, sig, err := histogramRange(props)
	if err != nil {
		return nil, err
	}
	object := &OneMeasurementHdrHistogram{
		OneMeasurementBase: NewOneMeasurementBase(name),
		histogram:          hdrhistogram.New(1, max, sig),
		percentiles:        percentiles,
	}
	return object, nil
}

// recordLatency records the value into h, clamping it to the trackable range.
func recordLatency(h *hdrhistogram.Histogram, latency int64) {
	if latency < h.LowestTrackableValue() {
		latency = h.LowestTrackableValue()
	} else if latency > h.HighestTrackableValue() {
		latency = h.HighestTrackableValue()
	}
	// The value is in range now so this never fails.
	_ = h.RecordValue(latency)
}

// Latency is reported in microseconds.
func (self *OneMeasurementHdrHistogram) Measure(latency int64) {
	self.lock.Lock()
	defer self.lock.Unlock()
	recordLatency(self.histogram, latency)
}

// This is called periodically from the status goroutine.
func (self *OneMeasurementHdrHistogram) GetSummary() string {
	self.lock.Lock()
	defer self.lock.Unlock()
	if self.histogram.TotalCount() == 0 {
		return ""
	}
	format := "[%s: Count=%d, Max=%d, Min=%d, Avg=%.2f, 90=%d, 99=%d, 99.9=%d, 99.99=%d]"
	return fmt.Sprintf(format,
		self.GetName(),
		self.histogram.TotalCount(),
		self.histogram.Max(),
		self.histogram.Min(),
		self.histogram.Mean(),
		self.histogram.ValueAtQuantile(90),
		self.histogram.ValueAtQuantile(99),
		self.histogram.ValueAtQuantile(99.9),
		self.histogram.ValueAtQuantile(99.99))
}

var (
	Suffixes = []string{"th", "st", "nd", "rd", "th", "th", "th", "th", "th", "th"}
)

func ordinal(p float64) string {
	if p != float64(int64(p)) {
		return fmt.Sprintf("%gth", p)
	}
	i := int64(p)
	switch i % 100 {
	case 11, 12, 13:
		return fmt.Sprintf("%dth", i)
	default:
		return fmt.Sprintf("%d%s", i, Suffixes[i%10])
	}
}

// This is called from the main goroutine, on orderly termination.
func (self *OneMeasurementHdrHistogram) ExportMeasurements(exporter MeasurementExporter) error {
	self.lock.Lock()
	h := hdrhistogram.Import(self.histogram.Export())
	self.lock.Unlock()

	name := self.GetName()
	if err := exporter.Write(name, "Operations", h.TotalCount()); err != nil {
		return err
	}
	if err := exporter.Write(name, "AverageLatency(us)", h.Mean()); err != nil {
		return err
	}
	if err := exporter.Write(name, "MinLatency(us)", h.Min()); err != nil {
		return err
	}
	if err := exporter.Write(name, "MaxLatency(us)", h.Max()); err != nil {
		return err
	}
	for _, p := range self.percentiles {
		err := exporter.Write(name, ordinal(p)+"PercentileLatency(us)", h.ValueAtQuantile(p))
		if err != nil {
			return err
		}
	}
	return self.ExportStatusCounts(exporter)
}

// Write human readable text.
type TextMeasurementExporter struct {
	io.WriteCloser
	buf *bufio.Writer
}

func NewTextMeasurementExporter(w io.WriteCloser) *TextMeasurementExporter {
	return &TextMeasurementExporter{
		WriteCloser: w,
		buf:         bufio.NewWriter(w),
	}
}

func (self *TextMeasurementExporter) Write(metric string, measurement string, v interface{}) error {
	_, err := fmt.Fprintf(self.buf, "[%s], %s, %v\n", metric, measurement, v)
	return err
}

func (self *TextMeasurementExporter) Close() error {
	err := self.buf.Flush()
	err2 := self.WriteCloser.Close()
	if err != nil {
		return err
	}
	return err2
}

type innerJSONMeasurement struct {
	Metric      string      `json:"metric"`
	Measurement string      `json:"measurement"`
	Value       interface{} `json:"value"`
}

// Export measurements into a machine readable JSON file,
// one object per line.
type JSONMeasurementExporter struct {
	io.WriteCloser
	buf *bufio.Writer
}

func NewJSONMeasurementExporter(w io.WriteCloser) *JSONMeasurementExporter {
	return &JSONMeasurementExporter{
		WriteCloser: w,
		buf:         bufio.NewWriter(w),
	}
}

func (self *JSONMeasurementExporter) Write(metric string, measurement string, v interface{}) error {
	b, err := json.Marshal(&innerJSONMeasurement{
		Metric:      metric,
		Measurement: measurement,
		Value:       v,
	})
	if err != nil {
		return err
	}
	if _, err = self.buf.Write(b); err != nil {
		return err
	}
	return self.buf.WriteByte('\n')
}

func (self *JSONMeasurementExporter) Close() error {
	err := self.buf.Flush()
	err2 := self.WriteCloser.Close()
	if err != nil {
		return err
	}
	return err2
}

// Export measurements into a machine readable JSON Array of measurement objects.
type JSONArrayMeasurementExporter struct {
	io.WriteCloser
	buf        *bufio.Writer
	afterFirst bool
}

func NewJSONArrayMeasurementExporter(w io.WriteCloser) *JSONArrayMeasurementExporter {
	object := &JSONArrayMeasurementExporter{
		WriteCloser: w,
		buf:         bufio.NewWriter(w),
		afterFirst:  false,
	}
	object.buf.WriteString("[")
	return object
}

func (self *JSONArrayMeasurementExporter) Write(metric string, measurement string, v interface{}) error {
	b, err := json.Marshal(&innerJSONMeasurement{
		Metric:      metric,
		Measurement: measurement,
		Value:       v,
	})
	if err != nil {
		return err
	}
	if self.afterFirst {
		if _, err = self.buf.WriteString(","); err != nil {
			return err
		}
	} else {
		self.afterFirst = true
	}
	_, err = self.buf.Write(b)
	return err
}

func (self *JSONArrayMeasurementExporter) Close() error {
	_, err := self.buf.WriteString("]")
	if err == nil {
		err = self.buf.Flush()
	}
	err2 := self.WriteCloser.Close()
	if err != nil {
		return err
	}
	return err2
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// NopWriteCloser returns a WriteCloser with a no-op Close method wrapping w,
// so exporters could write to the standard output without closing it.
func NopWriteCloser(w io.Writer) io.WriteCloser {
	return nopWriteCloser{w}
}
