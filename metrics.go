package yatb

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusExporter publishes the samples of a run as prometheus metrics.
type PrometheusExporter struct {
	registry       *prometheus.Registry
	eventCounter   *prometheus.CounterVec
	reconnects     prometheus.Counter
	latency        *prometheus.HistogramVec
	threadsGauge   prometheus.Gauge
	server         *http.Server
	serverFinished chan error
}

func NewPrometheusExporter(threads int) *PrometheusExporter {
	exporter := &PrometheusExporter{
		registry: prometheus.NewRegistry(),
		eventCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yatb_events_total",
				Help: "Total number of executed events",
			},
			[]string{"query", "status"},
		),
		reconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "yatb_reconnects_total",
				Help: "Total number of lost server connections",
			},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yatb_event_latency_seconds",
				Help:    "Event latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 20),
			},
			[]string{"query"},
		),
		threadsGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "yatb_threads",
				Help: "Number of client routines",
			},
		),
	}
	exporter.registry.MustRegister(
		exporter.eventCounter,
		exporter.reconnects,
		exporter.latency,
		exporter.threadsGauge,
	)
	exporter.threadsGauge.Set(float64(threads))
	return exporter
}

func (self *PrometheusExporter) Record(sample *Sample) {
	query := sample.Event.Query.Name
	self.eventCounter.WithLabelValues(query, sample.Status.String()).Inc()
	self.latency.WithLabelValues(query).Observe(sample.Latency.Seconds())
	if sample.Reconnect {
		self.reconnects.Inc()
	}
}

func (self *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(self.registry, promhttp.HandlerOpts{})
}

// StartServer serves the metrics on addr at /metrics until Shutdown.
func (self *PrometheusExporter) StartServer(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "fail to listen on %s", addr)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", self.Handler())
	self.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	self.serverFinished = make(chan error, 1)
	go func() {
		self.serverFinished <- self.server.Serve(listener)
	}()
	Infof("serving prometheus metrics on %s", listener.Addr())
	return nil
}

func (self *PrometheusExporter) Shutdown(ctx context.Context) error {
	if self.server == nil {
		return nil
	}
	if err := self.server.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-self.serverFinished; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
