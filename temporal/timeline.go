// Package temporal implements the global timeline: pausable scaled time,
// per-region time scales, rolling auto-snapshots, and snapshot-based
// jump/restore.
package temporal

import "sync"

// Region is an independently-scaled slice of the timeline (e.g. a
// slow-motion bubble around one entity).
type Region struct {
	Name      string
	TimeScale float64
	LocalTime float64
}

// TimeState is an immutable timestamped record of world state sufficient to
// restore via Timeline.JumpToSnapshot. Blobs are opaque per-entity binary
// payloads supplied by the caller (the save/serialization layer); Timeline
// itself only preserves and restores the timestamp bookkeeping.
type TimeState struct {
	Timestamp float64
	Blobs     map[string][]byte
}

const kMaxHistorySize = 64

// Timeline is one of the four shared-state islands named by the runtime's
// threading discipline: every exported method takes the lock, so it is safe
// to call from a debug UI, editor, or asset-IO thread concurrently with the
// simulation tick that owns it.
type Timeline struct {
	mu sync.Mutex

	currentTime     float64
	globalTimeScale float64
	isPaused        bool

	regions []*Region

	automaticSnapshots bool
	snapshotInterval   float64
	sinceLastSnapshot  float64
	history            []TimeState
}

// NewTimeline returns a Timeline at time zero with a 1.0 global scale,
// unpaused, with automatic snapshots disabled.
func NewTimeline() *Timeline {
	return &Timeline{globalTimeScale: 1.0}
}

func (tl *Timeline) AddRegion(r *Region) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.regions = append(tl.regions, r)
}

func (tl *Timeline) Regions() []*Region {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	out := make([]*Region, len(tl.regions))
	copy(out, tl.regions)
	return out
}

func (tl *Timeline) CurrentTime() float64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.currentTime
}

func (tl *Timeline) SetPaused(paused bool) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.isPaused = paused
}

func (tl *Timeline) IsPaused() bool {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.isPaused
}

func (tl *Timeline) SetGlobalTimeScale(scale float64) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.globalTimeScale = scale
}

func (tl *Timeline) GlobalTimeScale() float64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.globalTimeScale
}

// EnableAutomaticSnapshots turns on periodic snapshotting every interval
// seconds of unpaused wall time.
func (tl *Timeline) EnableAutomaticSnapshots(interval float64) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.automaticSnapshots = true
	tl.snapshotInterval = interval
	tl.sinceLastSnapshot = 0
}

func (tl *Timeline) DisableAutomaticSnapshots() {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.automaticSnapshots = false
}

// Update advances currentTime by dt*globalTimeScale unless paused, then
// advances every region's localTime by dt*globalTimeScale*region.timeScale.
// While paused, no time advances and no automatic snapshot is taken.
func (tl *Timeline) Update(dt float64, blobs func() map[string][]byte) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.isPaused {
		return
	}

	scaled := dt * tl.globalTimeScale
	tl.currentTime += scaled
	for _, r := range tl.regions {
		r.LocalTime += scaled * r.TimeScale
	}

	if !tl.automaticSnapshots || tl.snapshotInterval <= 0 {
		return
	}
	tl.sinceLastSnapshot += scaled
	for tl.sinceLastSnapshot >= tl.snapshotInterval {
		tl.sinceLastSnapshot -= tl.snapshotInterval
		var b map[string][]byte
		if blobs != nil {
			b = blobs()
		}
		tl.pushSnapshotLocked(TimeState{Timestamp: tl.currentTime, Blobs: b})
	}
}

// Snapshot records an explicit, caller-requested snapshot.
func (tl *Timeline) Snapshot(blobs map[string][]byte) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.pushSnapshotLocked(TimeState{Timestamp: tl.currentTime, Blobs: blobs})
}

func (tl *Timeline) pushSnapshotLocked(s TimeState) {
	tl.history = append(tl.history, s)
	if len(tl.history) > kMaxHistorySize {
		tl.history = tl.history[len(tl.history)-kMaxHistorySize:]
	}
}

func (tl *Timeline) History() []TimeState {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	out := make([]TimeState, len(tl.history))
	copy(out, tl.history)
	return out
}

// RestoreCurrentTime sets currentTime directly, bypassing Update's dt
// integration. Used by the save/load path to restore a persisted
// timestamp; it does not touch regions or history.
func (tl *Timeline) RestoreCurrentTime(t float64) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.currentTime = t
}

// JumpToSnapshot restores currentTime and every region's localTime to the
// snapshot's timestamp. An out-of-range index returns false and changes no
// state.
func (tl *Timeline) JumpToSnapshot(index int) bool {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if index < 0 || index >= len(tl.history) {
		return false
	}

	ts := tl.history[index].Timestamp
	tl.currentTime = ts
	for _, r := range tl.regions {
		r.LocalTime = ts
	}
	return true
}
