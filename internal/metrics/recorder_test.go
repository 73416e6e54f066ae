package metrics

import "time"

// testRecorder counts calls so other packages' behaviour can be asserted
// against the Recorder interface shape.
type testRecorder struct {
	stageDurations map[string]int
	detections     map[string]map[DetectionLabel]int
	recovered      map[string]int
}

var _ Recorder = (*testRecorder)(nil)
var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.stageDurations[stage]++
}
func (t *testRecorder) IncStageResult(string, ResultLabel) {}
func (t *testRecorder) IncBuildOutcome(string)             {}
func (t *testRecorder) IncDetection(platform string, result DetectionLabel) {
	m, ok := t.detections[platform]
	if !ok {
		m = map[DetectionLabel]int{}
		t.detections[platform] = m
	}
	m[result]++
}
func (t *testRecorder) IncInstallDecision(string, bool)           {}
func (t *testRecorder) ObserveSpanDuration(string, time.Duration) {}
func (t *testRecorder) IncRecoveredFailure(kind string)           { t.recovered[kind]++ }
