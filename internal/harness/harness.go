package harness

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/forthkit/unit/internal/sigtrap"
)

// Clock supplies the current time. The wall clock is used by default;
// tests inject testutil.FrozenClock for deterministic durations.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// suiteState tracks the Harness lifecycle.
type suiteState int

const (
	stateNotStarted suiteState = iota
	stateRunning
	stateEnded
)

// Phase is one ordered section of the suite body: a name printed as a
// heading and a function issuing statements and assertions against a
// shared setup.
type Phase struct {
	Name string
	Run  func(h *Harness)
}

// Options configures a Harness. The zero value writes to os.Stdout with
// the wall clock and a discarded logger.
type Options struct {
	Out    io.Writer
	Silent bool
	Color  bool
	Clock  Clock
	Logger *slog.Logger
}

// Harness drives one suite run. It owns the tally, the reporter, and the
// signal trap; all state is per-instance, never package-global.
type Harness struct {
	name     string
	runID    string
	tally    Tally
	reporter *Reporter
	trap     *sigtrap.Trap
	clock    Clock
	logger   *slog.Logger

	state   suiteState
	started time.Time
}

// New creates a harness for the named suite.
func New(name string, opts Options) *Harness {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{
		name:     name,
		runID:    uuid.Must(uuid.NewV7()).String(),
		reporter: NewReporter(opts.Out, opts.Silent, opts.Color),
		trap:     sigtrap.New(),
		clock:    opts.Clock,
		logger:   opts.Logger,
	}
}

// RunID returns the UUIDv7 identifying this run. It tags saved core
// images in the catalog so artifacts can be traced back to a run.
func (h *Harness) RunID() string {
	return h.runID
}

// Tally returns a copy of the current counters.
func (h *Harness) Tally() Tally {
	return h.tally
}

// Reporter exposes the transcript renderer, for phases that print
// their own headings.
func (h *Harness) Reporter() *Reporter {
	return h.reporter
}

// Start transitions NotStarted -> Running: records the start time,
// installs the signal trap, and prints the banner. Trap installation
// failure is a fatal harness failure; the run must not proceed.
func (h *Harness) Start() error {
	if h.state != stateNotStarted {
		return fmt.Errorf("harness: suite %q already started", h.name)
	}
	if err := h.trap.Install(); err != nil {
		return fmt.Errorf("harness: signal handler installation failed: %w", err)
	}
	h.started = h.clock.Now()
	h.state = stateRunning
	h.reporter.Banner(h.name, h.started)
	h.logger.Info("suite started", "suite", h.name, "run_id", h.runID)
	return nil
}

// RunPhases executes phases unconditionally in declared order. A fatal
// assertion failure inside any phase stops execution immediately and is
// returned as a *FatalError; remaining phases are forfeited. The caller
// still ends the suite so collected diagnostics are not discarded.
func (h *Harness) RunPhases(phases ...Phase) error {
	if h.state != stateRunning {
		return fmt.Errorf("harness: suite %q is not running", h.name)
	}
	for _, p := range phases {
		if err := h.runPhase(p); err != nil {
			return err
		}
	}
	return nil
}

func (h *Harness) runPhase(p Phase) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		fatal, ok := r.(*FatalError)
		if !ok {
			panic(r)
		}
		h.logger.Error("fatal assertion failure",
			"suite", h.name,
			"expr", fatal.Expr,
			"line", fatal.Line,
		)
		err = fatal
	}()
	if p.Name != "" {
		h.reporter.Note(p.Name)
	}
	p.Run(h)
	return nil
}

// End transitions Running -> Ended: computes the elapsed duration,
// prints the summary, and returns the failed count, which becomes the
// basis for the process exit status (0 means all passed). Ending a suite
// that is not running prints nothing and returns the current count.
func (h *Harness) End() int {
	if h.state != stateRunning {
		return h.tally.Failed
	}
	h.state = stateEnded
	elapsed := h.clock.Now().Sub(h.started)
	h.reporter.Summary(h.name, h.tally.Passed, h.tally.Total(), elapsed)
	h.logger.Info("suite ended",
		"suite", h.name,
		"passed", h.tally.Passed,
		"failed", h.tally.Failed,
		"elapsed", elapsed,
	)
	return h.tally.Failed
}
