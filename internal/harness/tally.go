package harness

// Tally counts passed and failed assertions for one suite run.
//
// Every assertion evaluation increments exactly one counter exactly once:
// never both, never neither.
type Tally struct {
	Passed int
	Failed int
}

// Record counts one assertion outcome.
func (t *Tally) Record(ok bool) {
	if ok {
		t.Passed++
	} else {
		t.Failed++
	}
}

// Total returns the number of assertions recorded so far.
func (t *Tally) Total() int {
	return t.Passed + t.Failed
}
