package compat

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/metrics"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/util/sets"
)

// Entry pairs a platform with what its detector found.
type Entry struct {
	Platform platform.Platform
	Result   *platform.DetectorResult
}

// Resolver runs detection over a registry.
type Resolver struct {
	registry *platform.Registry
	recorder metrics.Recorder
}

func NewResolver(registry *platform.Registry) *Resolver {
	return &Resolver{registry: registry, recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder. A nil recorder disables metrics.
func (r *Resolver) WithRecorder(rec metrics.Recorder) *Resolver {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	r.recorder = rec
	return r
}

// DetectAll runs every enabled platform's detector in registration order and
// returns the results that matched.
func (r *Resolver) DetectAll(ctx *platform.RepositoryContext) ([]*platform.DetectorResult, error) {
	entries, err := r.detect(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*platform.DetectorResult, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Result)
	}
	return out, nil
}

func (r *Resolver) detect(ctx *platform.RepositoryContext) ([]Entry, error) {
	start := time.Now()
	defer func() { r.recorder.ObserveStageDuration("detect", time.Since(start)) }()

	var entries []Entry
	for _, p := range r.registry.All() {
		if !p.IsEnabled(ctx) {
			slog.Debug("Platform disabled, skipping detection", logfields.Platform(p.Name()))
			r.recorder.IncDetection(p.Name(), metrics.DetectionDisabled)
			continue
		}
		result, err := r.safeDetect(ctx, p)
		if err != nil {
			r.recorder.IncStageResult("detect", metrics.ResultFatal)
			return nil, err
		}
		if result == nil {
			r.recorder.IncDetection(p.Name(), metrics.DetectionNotDetected)
			continue
		}
		r.recorder.IncDetection(p.Name(), metrics.DetectionDetected)
		slog.Info("Detected platform",
			logfields.Platform(result.Platform), logfields.Version(result.PlatformVersion))
		entries = append(entries, Entry{Platform: p, Result: result})
	}
	r.recorder.IncStageResult("detect", metrics.ResultSuccess)
	return entries, nil
}

// Outcome is one platform's detection result for reporting. Err is set when
// the platform matched but its version could not be resolved.
type Outcome struct {
	Platform string                   `json:"platform"`
	Result   *platform.DetectorResult `json:"result,omitempty"`
	Err      error                    `json:"-"`
}

// DetectEach runs every enabled detector and reports each platform on its
// own, so a fatal error for one platform does not hide the others.
func (r *Resolver) DetectEach(ctx *platform.RepositoryContext) []Outcome {
	var out []Outcome
	for _, p := range r.registry.All() {
		if !p.IsEnabled(ctx) {
			continue
		}
		result, err := r.safeDetect(ctx, p)
		if err == nil && result == nil {
			continue
		}
		out = append(out, Outcome{Platform: p.Name(), Result: result, Err: err})
	}
	return out
}

// safeDetect returns fatal errors and swallows everything else.
func (r *Resolver) safeDetect(ctx *platform.RepositoryContext, p platform.Platform) (result *platform.DetectorResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.detectorFailed(p.Name(), fmt.Errorf("panic: %v", rec))
			result, err = nil, nil
		}
	}()

	result, err = p.Detect(ctx)
	if err == nil {
		return result, nil
	}
	if isFatal(err) {
		return nil, err
	}
	r.detectorFailed(p.Name(), err)
	return nil, nil
}

func (r *Resolver) detectorFailed(name string, cause error) {
	failure := oerrors.DetectorFailure(name, cause)
	slog.Warn("Detector failed, treating platform as not detected",
		logfields.Platform(name), logfields.Error(failure))
	r.recorder.IncDetection(name, metrics.DetectionFailed)
	r.recorder.IncRecoveredFailure("detector")
}

func isFatal(err error) bool {
	return oerrors.IsCategory(err, oerrors.CategoryUnsupportedVersion) ||
		oerrors.IsCategory(err, oerrors.CategoryInvalidUsage)
}

// GetCompatiblePlatforms returns the platforms that take part in the build,
// in registration order. Prior results, when given, are mapped back to their
// platforms instead of detecting again.
func (r *Resolver) GetCompatiblePlatforms(ctx *platform.RepositoryContext, prior []*platform.DetectorResult) ([]Entry, error) {
	var entries []Entry
	if prior == nil {
		detected, err := r.detect(ctx)
		if err != nil {
			return nil, err
		}
		entries = detected
	} else {
		entries = r.fromPrior(ctx, prior)
	}

	if len(entries) <= 1 {
		return entries, nil
	}

	primary := primaryIndex(ctx, entries)
	if !ctx.Options.EnableMultiPlatformBuild {
		slog.Info("Multi-platform build disabled, using primary platform only",
			logfields.Platform(entries[primary].Platform.Name()))
		return []Entry{entries[primary]}, nil
	}

	out := make([]Entry, 0, len(entries))
	for i, e := range entries {
		if i != primary && !e.Platform.IsEnabledForMultiPlatformBuild(ctx) {
			slog.Debug("Platform excluded from multi-platform build", logfields.Platform(e.Platform.Name()))
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *Resolver) fromPrior(ctx *platform.RepositoryContext, prior []*platform.DetectorResult) []Entry {
	byName := make(map[string]*platform.DetectorResult, len(prior))
	for _, res := range prior {
		if res == nil {
			continue
		}
		if p, ok := r.registry.Lookup(res.Platform); ok {
			byName[p.Name()] = res
		} else {
			slog.Warn("Detection result for unknown platform ignored", logfields.Platform(res.Platform))
		}
	}

	// Registration order, not the order of prior.
	var entries []Entry
	for _, p := range r.registry.All() {
		res, ok := byName[p.Name()]
		if !ok {
			continue
		}
		if !p.IsEnabled(ctx) {
			slog.Debug("Platform disabled", logfields.Platform(p.Name()))
			continue
		}
		entries = append(entries, Entry{Platform: p, Result: res})
	}
	return entries
}

// primaryIndex is the platform named by the user when it was detected,
// otherwise the first one.
func primaryIndex(ctx *platform.RepositoryContext, entries []Entry) int {
	name := strings.TrimSpace(ctx.Options.PlatformName)
	if name == "" {
		return 0
	}
	for i, e := range entries {
		if strings.EqualFold(e.Platform.Name(), name) {
			return i
		}
		if a, ok := e.Platform.(platform.Aliased); ok {
			for _, alias := range a.Aliases() {
				if strings.EqualFold(alias, name) {
					return i
				}
			}
		}
	}
	return 0
}

// Exclusions unions the directories each platform keeps out of the
// intermediate copy and out of the build output, first occurrence first.
func Exclusions(ctx *platform.RepositoryContext, entries []Entry) (intermediate, output []string) {
	in, out := sets.NewOrdered[string](), sets.NewOrdered[string]()
	for _, e := range entries {
		in.Add(e.Platform.ExcludedFromIntermediateDir(ctx)...)
		out.Add(e.Platform.ExcludedFromBuildOutputDir(ctx)...)
	}
	return in.Items(), out.Items()
}
