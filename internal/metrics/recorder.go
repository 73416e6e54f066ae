package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
)

// DetectionLabel enumerates per-platform detection outcomes.
type DetectionLabel string

const (
	DetectionDetected    DetectionLabel = "detected"
	DetectionNotDetected DetectionLabel = "not_detected"
	DetectionFailed      DetectionLabel = "failed"
	DetectionDisabled    DetectionLabel = "disabled"
)

// Recorder defines observability hooks for the detection, install and composition
// pipeline. Implementations may forward to Prometheus. All methods must be safe
// to call on the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome string) // outcome: success|failed
	IncDetection(platform string, result DetectionLabel)
	IncInstallDecision(platform string, alreadyInstalled bool)
	ObserveSpanDuration(span string, d time.Duration)
	IncRecoveredFailure(kind string) // kind: detector|checker|line-processor
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) IncDetection(string, DetectionLabel)        {}
func (NoopRecorder) IncInstallDecision(string, bool)            {}
func (NoopRecorder) ObserveSpanDuration(string, time.Duration)  {}
func (NoopRecorder) IncRecoveredFailure(string)                 {}
