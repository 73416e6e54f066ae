package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	registry         *prom.Registry
	stageDuration    *prom.HistogramVec
	stageResults     *prom.CounterVec
	buildOutcome     *prom.CounterVec
	detections       *prom.CounterVec
	installDecisions *prom.CounterVec
	spanDuration     *prom.HistogramVec
	recovered        *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "oryx",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "oryx",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "oryx",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.detections = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "oryx",
			Name:      "platform_detections_total",
			Help:      "Platform detection results",
		}, []string{"platform", "result"})
		pr.installDecisions = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "oryx",
			Name:      "sdk_install_decisions_total",
			Help:      "SDK install checks by whether the version was already present",
		}, []string{"platform", "installed"})
		pr.spanDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "oryx",
			Name:      "script_span_duration_seconds",
			Help:      "Duration of marker-delimited spans in build script output",
			Buckets:   prom.DefBuckets,
		}, []string{"span"})
		pr.recovered = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "oryx",
			Name:      "recovered_failures_total",
			Help:      "Failures that were logged and swallowed",
		}, []string{"kind"})
		reg.MustRegister(pr.stageDuration, pr.stageResults, pr.buildOutcome, pr.detections,
			pr.installDecisions, pr.spanDuration, pr.recovered)
	})
	return pr
}

// Registry returns the registry the recorder's collectors are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncDetection(platform string, result DetectionLabel) {
	if p == nil || p.detections == nil {
		return
	}
	p.detections.WithLabelValues(platform, string(result)).Inc()
}

func (p *PrometheusRecorder) IncInstallDecision(platform string, alreadyInstalled bool) {
	if p == nil || p.installDecisions == nil {
		return
	}
	installed := "false"
	if alreadyInstalled {
		installed = "true"
	}
	p.installDecisions.WithLabelValues(platform, installed).Inc()
}

func (p *PrometheusRecorder) ObserveSpanDuration(span string, d time.Duration) {
	if p == nil || p.spanDuration == nil {
		return
	}
	p.spanDuration.WithLabelValues(span).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRecoveredFailure(kind string) {
	if p == nil || p.recovered == nil {
		return
	}
	p.recovered.WithLabelValues(kind).Inc()
}
