package telemetry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"hlfnet/pkg/logging"
)

// Sink receives one record per completed lifecycle operation. Metric values
// are durations in milliseconds.
type Sink interface {
	RecordEvent(name string, props map[string]string, metrics map[string]float64)
}

// Nop discards every record.
type Nop struct{}

func (Nop) RecordEvent(string, map[string]string, map[string]float64) {}

// LogSink writes records to the debug log.
type LogSink struct{}

func (LogSink) RecordEvent(name string, props map[string]string, metrics map[string]float64) {
	logging.Debug("Telemetry", "%s props=%s metrics=%s", name, formatProps(props), formatMetrics(metrics))
}

func formatProps(props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+props[k])
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func formatMetrics(metrics map[string]float64) string {
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%.0f", k, metrics[k]))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// PrometheusSink keeps the last duration of every operation and a count of
// recorded events in a private registry.
type PrometheusSink struct {
	registry *prometheus.Registry
	duration *prometheus.GaugeVec
	events   *prometheus.CounterVec
}

// NewPrometheusSink creates a sink with its own registry so that nothing
// leaks into the global default registerer.
func NewPrometheusSink() *PrometheusSink {
	s := &PrometheusSink{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hlfnet",
			Name:      "operation_duration_ms",
			Help:      "Duration of the last lifecycle operation in milliseconds.",
		}, []string{"event", "metric"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hlfnet",
			Name:      "operation_events_total",
			Help:      "Number of lifecycle operations recorded.",
		}, []string{"event"}),
	}
	s.registry.MustRegister(s.duration, s.events)
	return s
}

// Registry exposes the private registry, mainly for tests and textfile output.
func (s *PrometheusSink) Registry() *prometheus.Registry {
	return s.registry
}

func (s *PrometheusSink) RecordEvent(name string, _ map[string]string, metrics map[string]float64) {
	s.events.WithLabelValues(name).Inc()
	for metric, value := range metrics {
		s.duration.WithLabelValues(name, metric).Set(value)
	}
}

// WriteTextfile writes the registry in the text exposition format, suitable
// for the node-exporter textfile collector.
func (s *PrometheusSink) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, s.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// Multi fans a record out to several sinks.
type Multi []Sink

func (m Multi) RecordEvent(name string, props map[string]string, metrics map[string]float64) {
	for _, s := range m {
		s.RecordEvent(name, props, metrics)
	}
}

// Recorder is an in-memory sink used by tests and the MCP server.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

// Record is a single captured telemetry event.
type Record struct {
	Name    string
	Props   map[string]string
	Metrics map[string]float64
}

func (r *Recorder) RecordEvent(name string, props map[string]string, metrics map[string]float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, Record{Name: name, Props: props, Metrics: metrics})
}

// Records returns a copy of everything recorded so far.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}
