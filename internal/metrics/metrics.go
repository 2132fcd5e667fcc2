package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Adquisición
	samplesRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qrs_monitor_samples_recorded_total",
			Help: "Total number of samples written to the acquisition ring",
		},
	)

	samplesDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qrs_monitor_samples_dropped_total",
			Help: "Total number of samples dropped while acquisition was paused or backlogged",
		},
	)

	// Scheduler
	ticksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qrs_monitor_ticks_total",
			Help: "Total number of detection ticks received",
		},
	)

	ticksIgnoredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qrs_monitor_ticks_ignored_total",
			Help: "Total number of ticks ignored because a cycle was in flight",
		},
	)

	cyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrs_monitor_cycles_total",
			Help: "Total number of completed detection cycles by outcome",
		},
		[]string{"outcome"},
	)

	cycleDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qrs_monitor_cycle_duration_seconds",
			Help:    "Time from snapshot to publication",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)

	beatsDetectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qrs_monitor_beats_detected_total",
			Help: "Total number of QRS complexes detected",
		},
	)

	heartRateBPM = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qrs_monitor_heart_rate_bpm",
			Help: "Last published heart rate (0 when no valid rate)",
		},
	)

	sinkErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qrs_monitor_sink_errors_total",
			Help: "Total number of failed heart rate publications",
		},
	)

	// Bridge de display
	displayMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrs_display_messages_total",
			Help: "Total number of messages forwarded to display clients",
		},
		[]string{"kind"},
	)

	displayClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qrs_display_clients",
			Help: "Number of connected display clients",
		},
	)
)

const (
	OutcomeRate   = "rate"
	OutcomeNoRate = "no_rate"
)

func RecordSample()        { samplesRecordedTotal.Inc() }
func RecordDroppedSample() { samplesDroppedTotal.Inc() }

// RecordTick registra un tick; ignored indica que había un ciclo en curso.
func RecordTick(ignored bool) {
	ticksTotal.Inc()
	if ignored {
		ticksIgnoredTotal.Inc()
	}
}

// RecordCycle registra el resultado de un ciclo completo.
func RecordCycle(bpm int, valid bool, beats int, elapsed time.Duration) {
	outcome := OutcomeRate
	if !valid {
		outcome = OutcomeNoRate
	}
	cyclesTotal.WithLabelValues(outcome).Inc()
	cycleDurationSeconds.Observe(elapsed.Seconds())
	beatsDetectedTotal.Add(float64(beats))
	heartRateBPM.Set(float64(bpm))
}

func RecordSinkError() { sinkErrorsTotal.Inc() }

func RecordDisplayMessage(kind string) { displayMessagesTotal.WithLabelValues(kind).Inc() }

func SetDisplayClients(n int) { displayClients.Set(float64(n)) }
