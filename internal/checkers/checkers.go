// Package checkers holds advisory checks that run alongside script
// generation. They only ever produce messages; a failing checker is logged
// and never fails the build.
package checkers

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/metrics"
	"github.com/nitrek/Oryx/internal/sourcerepo"
)

type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	default:
		return "Info"
	}
}

type Message struct {
	Level   Level
	Content string
}

// Checker inspects the repo and the tool versions chosen for the build.
type Checker interface {
	Name() string
	// Applies reports whether any of tools is relevant to the checker.
	Applies(tools map[string]string) bool
	CheckSourceRepo(repo sourcerepo.SourceRepo) []Message
	CheckToolVersions(tools map[string]string) []Message
}

// Default returns the built-in checkers.
func Default() []Checker {
	return []Checker{NodeVersionChecker{}, PythonVersionChecker{}}
}

// Run executes the checkers that apply to tools and collects their messages.
func Run(repo sourcerepo.SourceRepo, tools map[string]string, checkers []Checker, recorder metrics.Recorder) []Message {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	var messages []Message
	applied := 0
	for _, c := range checkers {
		if !c.Applies(tools) {
			continue
		}
		applied++
		messages = append(messages, runOne(c, repo, tools, recorder)...)
	}
	slog.Debug("Ran checkers", logfields.Count(applied))
	return messages
}

func runOne(c Checker, repo sourcerepo.SourceRepo, tools map[string]string, recorder metrics.Recorder) (out []Message) {
	defer func() {
		if r := recover(); r != nil {
			failure := oerrors.CheckerFailure(c.Name(), fmt.Errorf("panic: %v", r))
			slog.Error("Checker failed", logfields.Checker(c.Name()), logfields.Error(failure))
			recorder.IncRecoveredFailure("checker")
			out = nil
		}
	}()
	out = append(out, c.CheckSourceRepo(repo)...)
	out = append(out, c.CheckToolVersions(tools)...)
	return out
}

var levelColors = map[Level]*color.Color{
	LevelInfo:    color.New(color.FgCyan),
	LevelWarning: color.New(color.FgYellow, color.Bold),
	LevelError:   color.New(color.FgRed, color.Bold),
}

// Print writes each message prefixed with its level.
func Print(w io.Writer, messages []Message) {
	for _, m := range messages {
		c, ok := levelColors[m.Level]
		if !ok {
			c = levelColors[LevelInfo]
		}
		_, _ = c.Fprintf(w, "%s: ", m.Level)
		_, _ = fmt.Fprintln(w, m.Content)
	}
}
