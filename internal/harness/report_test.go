package harness

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReporter_FixedPrefixes(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false, false)

	r.State("f = forth.New(cfg)")
	r.Must("f != nil")
	r.OK("f.Pop() == 4")
	r.Failed("f.Pop() == 5", 42)
	r.Caught("SIGABRT", 6)

	want := "   state:\tf = forth.New(cfg)\n" +
		"    must:\tf != nil\n" +
		"      ok:\tf.Pop() == 4\n" +
		"  FAILED:\tf.Pop() == 5 (line 42)\n" +
		"caught SIGABRT (signal number 6)\n"
	assert.Equal(t, want, buf.String())
}

func TestReporter_Summary(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false, false)

	r.Summary("forthkit", 3, 4, 1500*time.Millisecond)

	assert.Equal(t, "\n\nforthkit unit tests\npassed 3/4\ntime 1.500000s\n", buf.String())
}

func TestReporter_SilentSuppressesAllOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, true, false)

	r.Banner("forthkit", time.Now())
	r.Note("phase")
	r.State("setup")
	r.Must("precondition")
	r.OK("pass")
	r.Failed("fail", 7)
	r.Caught("SIGABRT", 6)
	r.Summary("forthkit", 1, 2, time.Second)

	assert.Zero(t, buf.Len())
}

func TestReporter_ColorWrapsPrefixOnly(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false, true)

	r.OK("1 == 1")
	assert.Equal(t, "      \x1b[32mok\x1b[0m:\t1 == 1\n", buf.String())

	buf.Reset()
	r.Failed("1 == 2", 9)
	assert.Equal(t, "  \x1b[31mFAILED\x1b[0m:\t1 == 2 (line 9)\n", buf.String())

	buf.Reset()
	r.State("setup")
	assert.Equal(t, "   \x1b[34mstate\x1b[0m:\tsetup\n", buf.String())
}
