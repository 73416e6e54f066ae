// Package executor runs generated scripts and streams their output, line by
// line, to the console and to line processors.
package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/metrics"
)

// Command describes one process to run.
type Command struct {
	Path string
	Args []string
	Dir  string
	// Env is appended to the current environment.
	Env []string

	// Stdout and Stderr receive every line; nil discards.
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultWaitDelay bounds how long Run waits for output pipes held open by
// background children after the script exits or is cancelled.
const DefaultWaitDelay = 5 * time.Second

// Executor runs commands and feeds their output to processors.
type Executor struct {
	processors []LineProcessor
	recorder   metrics.Recorder
	waitDelay  time.Duration
}

func New(processors ...LineProcessor) *Executor {
	return &Executor{processors: processors, recorder: metrics.NoopRecorder{}, waitDelay: DefaultWaitDelay}
}

// WithRecorder sets the metrics recorder. A nil recorder disables metrics.
func (e *Executor) WithRecorder(rec metrics.Recorder) *Executor {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	e.recorder = rec
	return e
}

// WithWaitDelay overrides DefaultWaitDelay.
func (e *Executor) WithWaitDelay(d time.Duration) *Executor {
	e.waitDelay = d
	return e
}

// Run starts the command and waits for it. A process that ran and exited
// non-zero returns its exit code and a nil error; err is reserved for
// failures to start or to read output.
func (e *Executor) Run(ctx context.Context, c Command) (int, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = e.waitDelay
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}

	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	cmd.Stdout = outW
	cmd.Stderr = errW

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("failed to start %s: %w", c.Path, err)
	}
	slog.Debug("Started process", logfields.File(c.Path), logfields.Path(c.Dir))

	// Processors see lines from both streams; serialize them.
	var mu sync.Mutex
	var g errgroup.Group
	g.Go(func() error { return e.pump(outR, c.Stdout, &mu) })
	g.Go(func() error { return e.pump(errR, c.Stderr, &mu) })

	waitErr := cmd.Wait()
	_ = outW.Close()
	_ = errW.Close()
	pumpErr := g.Wait()
	e.recorder.ObserveStageDuration("execute", time.Since(start))

	if pumpErr != nil {
		return -1, fmt.Errorf("read process output: %w", pumpErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(waitErr, &exitErr):
			return exitErr.ExitCode(), nil
		case errors.Is(waitErr, exec.ErrWaitDelay):
			slog.Warn("Process exited but left its output open", logfields.File(c.Path))
			return 0, nil
		}
		return -1, fmt.Errorf("failed to run %s: %w", c.Path, waitErr)
	}
	return 0, nil
}

// pump reads until EOF. Lines have no length limit so the writer side is
// always drained.
func (e *Executor) pump(r io.Reader, echo io.Writer, mu *sync.Mutex) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			mu.Lock()
			if echo != nil {
				_, _ = fmt.Fprintln(echo, line)
			}
			for _, p := range e.processors {
				e.process(p, line)
			}
			mu.Unlock()
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			_, _ = io.Copy(io.Discard, r)
			return err
		}
	}
}

// process never lets a processor failure escape.
func (e *Executor) process(p LineProcessor, line string) {
	defer func() {
		if r := recover(); r != nil {
			e.processorFailed(p, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := p.ProcessLine(line); err != nil {
		e.processorFailed(p, err)
	}
}

func (e *Executor) processorFailed(p LineProcessor, cause error) {
	failure := oerrors.LineProcessorFailure(p.Name(), cause)
	slog.Warn("Line processor failed", logfields.Processor(p.Name()), logfields.Error(failure))
	e.recorder.IncRecoveredFailure("line-processor")
}
