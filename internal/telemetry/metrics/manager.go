package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterProgressUpdates     prometheus.Counter
	CounterMissionsCompleted   prometheus.Counter
	CounterStorageFailures     *prometheus.CounterVec
	CounterGhostsRegistered    prometheus.Counter
	CounterChamberSessions     *prometheus.CounterVec
	CounterThemeToggles        prometheus.Counter

	// gauges
	GaugeRequests         prometheus.Gauge
	GaugeOpenConns        prometheus.Gauge
	GaugeLifeSignal       prometheus.Gauge
	GaugeChamberActive    prometheus.Gauge
	GaugeThemeSubscribers prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistogramChamberReps     prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("backend", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("backend", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterProgressUpdates := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "progress_updates",
		Help:      "The total number of saved exercise rep counts",
	})
	counterMissionsCompleted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "missions_completed",
		Help:      "The total number of daily missions marked complete",
	})
	counterStorageFailures := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "storage_failures",
		Help:      "The total number of failed or unparseable storage accesses",
	}, []string{"op"})
	counterGhostsRegistered := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "ghosts_registered",
		Help:      "The total number of issued anonymous ghost ids",
	})
	counterChamberSessions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "chamber_sessions",
		Help:      "The total number of chamber sessions, by outcome",
	}, []string{"outcome"})
	counterThemeToggles := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "theme_toggles",
		Help:      "The total number of theme mode toggles",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeOpenConns := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "open_connections",
		Help:      "Current number of open client connections",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})
	gaugeChamberActive := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "chamber_active_sessions",
		Help:      "Current number of running chamber sessions",
	})
	gaugeThemeSubscribers := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "theme_subscribers",
		Help:      "Current number of theme change listeners",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histogramChamberReps := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "chamber_session_reps",
		Help:      "Reps counted per finished chamber session",
		Buckets:   []float64{1, 5, 10, 15, 20, 30, 50, 100},
	})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterProgressUpdates:     counterProgressUpdates,
		CounterMissionsCompleted:   counterMissionsCompleted,
		CounterStorageFailures:     counterStorageFailures,
		CounterGhostsRegistered:    counterGhostsRegistered,
		CounterChamberSessions:     counterChamberSessions,
		CounterThemeToggles:        counterThemeToggles,
		GaugeRequests:              gaugeRequests,
		GaugeOpenConns:             gaugeOpenConns,
		GaugeLifeSignal:            gaugeLifeSignal,
		GaugeChamberActive:         gaugeChamberActive,
		GaugeThemeSubscribers:      gaugeThemeSubscribers,
		HistogramRequestDuration:   histogramRequestDuration,
		HistogramChamberReps:       histogramChamberReps,
	}
}
