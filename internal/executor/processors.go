package executor

import (
	"log/slog"
	"strings"
	"time"

	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/metrics"
	"github.com/nitrek/Oryx/internal/templates"
)

// LineProcessor observes one line of process output at a time.
type LineProcessor interface {
	Name() string
	ProcessLine(line string) error
}

// TextSpan is a named region of output delimited by two marker lines.
type TextSpan struct {
	Name      string
	StartLine string
	EndLine   string
}

// BuildHookSpans are the pre and post build command regions of a generated
// build script.
func BuildHookSpans() []TextSpan {
	return []TextSpan{
		{Name: "RunPreBuildScript", StartLine: templates.PreBuildCommandPrologue, EndLine: templates.PreBuildCommandEpilogue},
		{Name: "RunPostBuildScript", StartLine: templates.PostBuildCommandPrologue, EndLine: templates.PostBuildCommandEpilogue},
	}
}

// SpanTimer times TextSpans as their markers go by.
type SpanTimer struct {
	spans    []TextSpan
	started  map[string]time.Time
	recorder metrics.Recorder
	now      func() time.Time
}

func NewSpanTimer(recorder metrics.Recorder, spans ...TextSpan) *SpanTimer {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &SpanTimer{spans: spans, started: map[string]time.Time{}, recorder: recorder, now: time.Now}
}

func (s *SpanTimer) Name() string { return "span-timer" }

func (s *SpanTimer) ProcessLine(line string) error {
	line = strings.TrimSpace(line)
	for _, span := range s.spans {
		switch line {
		case span.StartLine:
			s.started[span.Name] = s.now()
		case span.EndLine:
			begin, ok := s.started[span.Name]
			if !ok {
				continue
			}
			delete(s.started, span.Name)
			d := s.now().Sub(begin)
			s.recorder.ObserveSpanDuration(span.Name, d)
			slog.Info("Span finished", logfields.Name(span.Name), logfields.DurationMS(float64(d.Milliseconds())))
		}
	}
	return nil
}

// PipDownloadCounter counts the packages pip downloads.
type PipDownloadCounter struct {
	count int
}

func (p *PipDownloadCounter) Name() string { return "pip-downloads" }

func (p *PipDownloadCounter) ProcessLine(line string) error {
	if strings.HasPrefix(strings.TrimSpace(line), "Downloading ") {
		p.count++
	}
	return nil
}

// Count is the number of downloads seen so far.
func (p *PipDownloadCounter) Count() int { return p.count }
