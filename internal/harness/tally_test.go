package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTally_RecordsExactlyOneCounter(t *testing.T) {
	var tally Tally

	tally.Record(true)
	tally.Record(true)
	tally.Record(false)

	assert.Equal(t, 2, tally.Passed)
	assert.Equal(t, 1, tally.Failed)
	assert.Equal(t, 3, tally.Total())
}

func TestTally_TotalMatchesRecordCount(t *testing.T) {
	var tally Tally
	outcomes := []bool{true, false, false, true, true, false, true}

	for _, ok := range outcomes {
		tally.Record(ok)
	}

	assert.Equal(t, len(outcomes), tally.Total())
	assert.Equal(t, 4, tally.Passed)
	assert.Equal(t, 3, tally.Failed)
}
