package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the static labels attached to every sync metric.
type Config struct {
	ServiceName string
	Environment string
}

// SyncMetrics captures sync-engine health signals: cycle runs, per-step
// outcomes and durations, and push throughput.
type SyncMetrics struct {
	cycleRuns       *prometheus.CounterVec
	cycleSuppressed *prometheus.CounterVec
	stepRuns        *prometheus.CounterVec
	stepErrors      *prometheus.CounterVec
	stepDuration    *prometheus.HistogramVec
	pushedTotal     *prometheus.CounterVec

	service string
	env     string
}

var (
	syncMetricsOnce sync.Once
	syncMetrics     *SyncMetrics
)

// Sync returns the singleton sync metrics registry.
func Sync() *SyncMetrics {
	return SyncWithConfig(Config{})
}

// SyncWithConfig returns the singleton sync metrics registry using config labels.
func SyncWithConfig(cfg Config) *SyncMetrics {
	syncMetricsOnce.Do(func() {
		syncMetrics = newSyncMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return syncMetrics
}

// ResetSyncMetricsForTest resets the sync metrics singleton for tests.
func ResetSyncMetricsForTest() {
	syncMetricsOnce = sync.Once{}
	syncMetrics = nil
}

func newSyncMetrics(registerer prometheus.Registerer, cfg Config) *SyncMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "kasira"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	m := &SyncMetrics{
		service: serviceName,
		env:     environment,
	}

	m.cycleRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kasira_sync_cycle_runs_total",
		Help: "Sync cycles started.",
	}, []string{"service", "env", "trigger"})

	m.cycleSuppressed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kasira_sync_cycle_suppressed_total",
		Help: "Sync cycles suppressed because one was already in flight.",
	}, []string{"service", "env"})

	m.stepRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kasira_sync_step_runs_total",
		Help: "Sync steps executed.",
	}, []string{"service", "env", "step"})

	m.stepErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kasira_sync_step_errors_total",
		Help: "Sync steps that failed.",
	}, []string{"service", "env", "step"})

	m.stepDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kasira_sync_step_duration_seconds",
		Help:    "Sync step wall time.",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "env", "step"})

	m.pushedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kasira_sync_transactions_pushed_total",
		Help: "Locally originated transactions accepted by the remote.",
	}, []string{"service", "env"})

	registerer.MustRegister(
		m.cycleRuns,
		m.cycleSuppressed,
		m.stepRuns,
		m.stepErrors,
		m.stepDuration,
		m.pushedTotal,
	)

	return m
}

func (m *SyncMetrics) IncCycleRun(trigger string) {
	m.cycleRuns.WithLabelValues(m.service, m.env, trigger).Inc()
}

func (m *SyncMetrics) IncCycleSuppressed() {
	m.cycleSuppressed.WithLabelValues(m.service, m.env).Inc()
}

func (m *SyncMetrics) IncStepRun(step string) {
	m.stepRuns.WithLabelValues(m.service, m.env, step).Inc()
}

func (m *SyncMetrics) IncStepError(step string) {
	m.stepErrors.WithLabelValues(m.service, m.env, step).Inc()
}

func (m *SyncMetrics) ObserveStepDuration(step string, elapsed time.Duration) {
	m.stepDuration.WithLabelValues(m.service, m.env, step).Observe(elapsed.Seconds())
}

func (m *SyncMetrics) AddPushed(n int) {
	m.pushedTotal.WithLabelValues(m.service, m.env).Add(float64(n))
}
