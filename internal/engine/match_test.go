package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchExactFirstToken(t *testing.T) {
	snapshot := []QueueJob{
		{ID: "1", RawTitle: "01983C - cover"},
		{ID: "2", RawTitle: "01983 - insert"},
	}

	matched := Match(Normalize("#01983 Flyer"), snapshot)
	require.Len(t, matched, 1, "01983 must not prefix-match 01983C")
	assert.Equal(t, "2", matched[0].ID)
}

func TestMatchReturnsAllInSnapshotOrder(t *testing.T) {
	snapshot := []QueueJob{
		{ID: "a", RawTitle: "4521 Brochure Job"},
		{ID: "b", RawTitle: "4521B Extra"},
		{ID: "c", RawTitle: "#4521 reprint"},
		{ID: "d", RawTitle: "4521 duplicate title"},
	}

	matched := Match(Normalize("#4521 Brochure"), snapshot)
	require.Len(t, matched, 3)
	assert.Equal(t, []string{"a", "c", "d"}, []string{matched[0].ID, matched[1].ID, matched[2].ID})
}

func TestMatchNoDedup(t *testing.T) {
	snapshot := []QueueJob{
		{ID: "1", RawTitle: "900 run"},
		{ID: "2", RawTitle: "900 run"},
	}
	assert.Len(t, Match("900", snapshot), 2)
}

func TestMatchEmptySnapshot(t *testing.T) {
	assert.Empty(t, Match("4521", nil))
}
