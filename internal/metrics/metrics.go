package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sitter/internal/core/reminder"
	"sitter/internal/watcher"
)

// Metrics exposes watcher and reminder activity as Prometheus collectors.
type Metrics struct {
	registry  *prometheus.Registry
	lines     prometheus.Counter
	events    *prometheus.CounterVec
	resets    prometheus.Counter
	discarded prometheus.Counter
	snoozes   prometheus.Counter
	ticks     prometheus.Counter
	remaining prometheus.Gauge
	elapsed   prometheus.Gauge
	pastDue   prometheus.Gauge
}

// New creates collectors registered on a private registry.
func New() *Metrics {
	metrics := &Metrics{
		registry: prometheus.NewRegistry(),
		lines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitter_monitor_lines_total",
			Help: "Lines read from the bus monitor.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitter_signal_events_total",
			Help: "Signal events parsed from the bus monitor, by member.",
		}, []string{"member"}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitter_reminder_resets_total",
			Help: "Accepted reset events.",
		}),
		discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitter_reminder_discarded_events_total",
			Help: "Consumed events whose member does not reset the reminder.",
		}),
		snoozes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitter_reminder_snoozes_total",
			Help: "Snooze requests.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitter_reminder_ticks_total",
			Help: "Reminder ticks processed.",
		}),
		remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sitter_reminder_remaining_seconds",
			Help: "Time left before the reminder is past due, as of the last tick.",
		}),
		elapsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sitter_reminder_elapsed_seconds",
			Help: "Time since the last accepted reset, as of the last tick.",
		}),
		pastDue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sitter_reminder_past_due",
			Help: "1 while the reminder is past due.",
		}),
	}

	metrics.registry.MustRegister(
		metrics.lines,
		metrics.events,
		metrics.resets,
		metrics.discarded,
		metrics.snoozes,
		metrics.ticks,
		metrics.remaining,
		metrics.elapsed,
		metrics.pastDue,
	)
	return metrics
}

// Registry returns the registry holding all sitter collectors.
func (metrics *Metrics) Registry() *prometheus.Registry {
	return metrics.registry
}

func (metrics *Metrics) ObserveLine() {
	metrics.lines.Inc()
}

func (metrics *Metrics) ObserveEvent(member string) {
	metrics.events.WithLabelValues(member).Inc()
}

func (metrics *Metrics) ObserveTick(status reminder.Status) {
	metrics.ticks.Inc()
	metrics.remaining.Set(status.Remaining.Seconds())
	metrics.elapsed.Set(status.Elapsed.Seconds())
	if status.PastDue {
		metrics.pastDue.Set(1)
	} else {
		metrics.pastDue.Set(0)
	}
}

func (metrics *Metrics) ObserveReset(string) {
	metrics.resets.Inc()
}

func (metrics *Metrics) ObserveDiscarded(string) {
	metrics.discarded.Inc()
}

func (metrics *Metrics) ObserveSnooze() {
	metrics.snoozes.Inc()
}

// Handler serves /metrics and /healthz.
func (metrics *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Serve listens on address until ctx is done.
func (metrics *Metrics) Serve(ctx context.Context, address string) {
	server := &http.Server{
		Addr:              address,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()
}

var (
	_ watcher.Recorder  = (*Metrics)(nil)
	_ reminder.Observer = (*Metrics)(nil)
)
