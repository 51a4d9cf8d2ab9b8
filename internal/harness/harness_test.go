package harness

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forthkit/unit/internal/testutil"
)

func TestStart_TransitionsOnce(t *testing.T) {
	h := New("forthkit", Options{Silent: true})

	require.NoError(t, h.Start())
	assert.Error(t, h.Start(), "starting a running suite must fail")
}

func TestRunPhases_RequiresRunningSuite(t *testing.T) {
	h := New("forthkit", Options{Silent: true})
	assert.Error(t, h.RunPhases(Phase{Name: "p", Run: func(*Harness) {}}))
}

func TestRunPhases_ExecutesInDeclaredOrder(t *testing.T) {
	h := New("forthkit", Options{Silent: true})
	require.NoError(t, h.Start())

	var order []string
	err := h.RunPhases(
		Phase{Name: "first", Run: func(h *Harness) {
			order = append(order, "first")
			h.Test("t1", func() bool { return true })
		}},
		Phase{Name: "second", Run: func(h *Harness) {
			order = append(order, "second")
			h.Test("t2", func() bool { return false })
		}},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, Tally{Passed: 1, Failed: 1}, h.Tally())
	assert.Equal(t, 1, h.End())
}

func TestRunPhases_FatalStopsRemainingPhases(t *testing.T) {
	h := New("forthkit", Options{Silent: true})
	require.NoError(t, h.Start())

	reached := false
	err := h.RunPhases(
		Phase{Name: "setup", Run: func(h *Harness) {
			h.Test("pre 1", func() bool { return true })
			h.Test("pre 2", func() bool { return true })
			h.Must("engine handle valid", func() bool { return false })
			h.Test("never evaluated", func() bool { reached = true; return true })
		}},
		Phase{Name: "skipped", Run: func(h *Harness) {
			reached = true
		}},
	)

	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "engine handle valid", fatal.Expr)
	assert.False(t, reached, "no assertion after a failed must may run")
	assert.Equal(t, Tally{Passed: 2, Failed: 1}, h.Tally())
}

func TestRunPhases_NonFatalPanicPropagates(t *testing.T) {
	h := New("forthkit", Options{Silent: true})
	require.NoError(t, h.Start())

	assert.Panics(t, func() {
		_ = h.RunPhases(Phase{Name: "bug", Run: func(*Harness) {
			panic(errors.New("unexpected"))
		}})
	})
}

func TestEnd_ComputesElapsedFromClock(t *testing.T) {
	clock := testutil.NewFrozenClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	var buf bytes.Buffer
	h := New("forthkit", Options{Out: &buf, Clock: clock})
	require.NoError(t, h.Start())

	h.Test("a", func() bool { return true })
	clock.Advance(1250 * time.Millisecond)

	assert.Equal(t, 0, h.End())
	assert.Contains(t, buf.String(), "passed 1/1\ntime 1.250000s\n")
}

func TestEnd_RequiresRunningSuite(t *testing.T) {
	var buf bytes.Buffer
	h := New("forthkit", Options{Out: &buf})

	assert.Equal(t, 0, h.End(), "ending before start reports no failures")
	assert.Empty(t, buf.String(), "no summary without a start time")

	require.NoError(t, h.Start())
	h.Test("a", func() bool { return false })
	assert.Equal(t, 1, h.End())

	summary := buf.String()
	assert.Equal(t, 1, h.End(), "a second end keeps the count")
	assert.Equal(t, summary, buf.String(), "a second end prints nothing")
}

func TestRunID_IsStablePerRun(t *testing.T) {
	h := New("forthkit", Options{Silent: true})
	id := h.RunID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, h.RunID())
	assert.NotEqual(t, id, New("forthkit", Options{Silent: true}).RunID())
}
