package harness

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forthkit/unit/internal/sigtrap"
)

func startedHarness(t *testing.T, opts Options) (*Harness, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	if opts.Out == nil {
		opts.Out = &buf
	}
	h := New("forthkit", opts)
	require.NoError(t, h.Start())
	return h, &buf
}

func TestTest_TalliesEveryOutcomeOnce(t *testing.T) {
	h, _ := startedHarness(t, Options{Silent: true})

	// Scenario A: true, true, false, true.
	outcomes := []bool{true, true, false, true}
	for _, want := range outcomes {
		v := want
		got := h.Test("scenario A step", func() bool { return v })
		assert.Equal(t, want, got)
	}

	tally := h.Tally()
	assert.Equal(t, 3, tally.Passed)
	assert.Equal(t, 1, tally.Failed)
	assert.Equal(t, 1, h.End())
}

func TestTest_CaughtAbortRecordedAsFailure(t *testing.T) {
	h, buf := startedHarness(t, Options{})

	// Scenario C: the evaluation trips an internal consistency check.
	ok := h.Test("engine invariant holds", func() bool {
		sigtrap.Abort()
		return true
	})
	assert.False(t, ok)

	// The suite proceeds: the next assertion still runs and records.
	assert.True(t, h.Test("suite continues", func() bool { return true }))

	tally := h.Tally()
	assert.Equal(t, 1, tally.Passed)
	assert.Equal(t, 1, tally.Failed)

	out := buf.String()
	assert.Contains(t, out, "caught SIGABRT (signal number 6)\n")
	assert.Contains(t, out, "  FAILED:\tengine invariant holds (line ")
	assert.Contains(t, out, "      ok:\tsuite continues\n")

	// The caught line precedes the FAILED line for the same assertion.
	assert.Less(t,
		strings.Index(out, "caught SIGABRT"),
		strings.Index(out, "FAILED"),
	)
}

func TestMust_PassPrintsMustLineFirst(t *testing.T) {
	h, buf := startedHarness(t, Options{})

	h.Must("engine initialized", func() bool { return true })

	out := buf.String()
	assert.Contains(t, out, "    must:\tengine initialized\n")
	assert.Contains(t, out, "      ok:\tengine initialized\n")
	assert.Less(t, strings.Index(out, "must:"), strings.Index(out, "ok:"))
	assert.Equal(t, Tally{Passed: 1}, h.Tally())
}

func TestMust_FailureRaisesFatalError(t *testing.T) {
	h, _ := startedHarness(t, Options{Silent: true})

	// Scenario B: prior tally passed=2, failed=0.
	h.Test("warm-up 1", func() bool { return true })
	h.Test("warm-up 2", func() bool { return true })

	var fatal *FatalError
	func() {
		defer func() {
			var ok bool
			fatal, ok = recover().(*FatalError)
			require.True(t, ok, "Must failure must raise *FatalError")
		}()
		h.Must("precondition", func() bool { return false })
	}()

	assert.Equal(t, "precondition", fatal.Expr)
	assert.NotZero(t, fatal.Line)
	// The failed Must itself is counted; nothing after it runs.
	assert.Equal(t, Tally{Passed: 2, Failed: 1}, h.Tally())
}

func TestStatement_IsNotGuarded(t *testing.T) {
	h, buf := startedHarness(t, Options{})

	ran := false
	h.Statement("core = openImage()", func() { ran = true })
	assert.True(t, ran)
	assert.Contains(t, buf.String(), "   state:\tcore = openImage()\n")

	// A fault inside a statement is outside the recovery contract and
	// propagates with default behavior.
	assert.Panics(t, func() {
		h.Statement("boom", func() { sigtrap.Abort() })
	})

	// Statements never touch the tally.
	assert.Equal(t, Tally{}, h.Tally())
}

func TestSilentMode_SameTallyZeroOutput(t *testing.T) {
	run := func(silent bool) (Tally, int, int) {
		var buf bytes.Buffer
		h := New("forthkit", Options{Out: &buf, Silent: silent})
		require.NoError(t, h.Start())
		h.Test("a", func() bool { return true })
		h.Test("b", func() bool { return false })
		h.Test("c", func() bool { sigtrap.Abort(); return true })
		failed := h.End()
		return h.Tally(), failed, buf.Len()
	}

	loudTally, loudFailed, loudLen := run(false)
	silentTally, silentFailed, silentLen := run(true)

	assert.Equal(t, loudTally, silentTally)
	assert.Equal(t, loudFailed, silentFailed)
	assert.Positive(t, loudLen)
	assert.Zero(t, silentLen)
}
