package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateAdvancesCurrentTimeAndRegionsByScale(t *testing.T) {
	tl := NewTimeline()
	tl.SetGlobalTimeScale(2.0)
	region := &Region{Name: "slowmo", TimeScale: 0.5}
	tl.AddRegion(region)

	tl.Update(1.0, nil)

	assert.InDelta(t, 2.0, tl.CurrentTime(), 1e-9)
	assert.InDelta(t, 1.0, region.LocalTime, 1e-9)
}

func TestUpdateDoesNothingWhilePaused(t *testing.T) {
	tl := NewTimeline()
	tl.SetPaused(true)
	region := &Region{Name: "r"}
	tl.AddRegion(region)

	tl.Update(5.0, nil)

	assert.Equal(t, 0.0, tl.CurrentTime())
	assert.Equal(t, 0.0, region.LocalTime)
}

func TestAutomaticSnapshotsFireOnWholeIntervalsAndNotWhilePaused(t *testing.T) {
	tl := NewTimeline()
	tl.EnableAutomaticSnapshots(1.0)

	tl.Update(0.6, func() map[string][]byte { return nil })
	assert.Empty(t, tl.History())

	tl.Update(0.5, func() map[string][]byte { return nil })
	require.Len(t, tl.History(), 1)

	tl.SetPaused(true)
	tl.Update(10.0, func() map[string][]byte { return nil })
	assert.Len(t, tl.History(), 1)
}

func TestHistoryEvictsOldestBeyondMaxSize(t *testing.T) {
	tl := NewTimeline()
	tl.EnableAutomaticSnapshots(1.0)

	for i := 0; i < kMaxHistorySize+5; i++ {
		tl.Update(1.0, func() map[string][]byte { return nil })
	}

	history := tl.History()
	require.Len(t, history, kMaxHistorySize)
	assert.Greater(t, history[0].Timestamp, 1.0)
}

func TestJumpToSnapshotRestoresCurrentTimeAndRegions(t *testing.T) {
	tl := NewTimeline()
	region := &Region{Name: "r"}
	tl.AddRegion(region)

	tl.Update(3.0, nil)
	tl.Snapshot(nil)
	tl.Update(10.0, nil)

	ok := tl.JumpToSnapshot(0)

	assert.True(t, ok)
	assert.InDelta(t, 3.0, tl.CurrentTime(), 1e-9)
	assert.InDelta(t, 3.0, region.LocalTime, 1e-9)
}

func TestJumpToSnapshotOutOfRangeReturnsFalseAndChangesNothing(t *testing.T) {
	tl := NewTimeline()
	tl.Update(5.0, nil)
	tl.Snapshot(nil)

	ok := tl.JumpToSnapshot(7)

	assert.False(t, ok)
	assert.InDelta(t, 5.0, tl.CurrentTime(), 1e-9)
}
