package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fabricengine/fabric/temporal"
	"github.com/google/uuid"
)

// ErrVersionMismatch is returned by Load when a save file's save_version
// doesn't match SaveVersion.
type ErrVersionMismatch struct {
	Found string
}

func (e ErrVersionMismatch) Error() string {
	return fmt.Sprintf("persist: save_version %q does not match supported %q", e.Found, SaveVersion)
}

// SlotInfo is one entry in SaveManager.ListSlots's result.
type SlotInfo struct {
	Name      string
	Timestamp string
	Version   string
	SizeBytes int64
}

// SaveManager writes and reads save-file envelopes to a directory, and
// drives a two-slot rotating autosave.
type SaveManager struct {
	dir string

	timeline *temporal.Timeline

	autosaveEnabled  bool
	autosaveInterval float64
	autosaveAccum    float64
	autosaveSlotIdx  int
}

// NewSaveManager returns a manager rooted at dir, creating it if absent.
func NewSaveManager(dir string, timeline *temporal.Timeline) (*SaveManager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SaveManager{dir: dir, timeline: timeline}, nil
}

// Save pauses the timeline, wraps scene in the envelope, writes
// <dir>/<slot>.json atomically, and resumes the timeline iff it was
// previously unpaused (spec.md §4.14).
func (m *SaveManager) Save(slot string, scene SceneRecord) error {
	wasPaused := m.timeline == nil || m.timeline.IsPaused()
	if m.timeline != nil {
		m.timeline.SetPaused(true)
	}
	defer func() {
		if m.timeline != nil && !wasPaused {
			m.timeline.SetPaused(false)
		}
	}()

	envelope := Envelope{
		SaveVersion: SaveVersion,
		Slot:        slot,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Scene:       scene,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return m.writeAtomic(slot+".json", payload)
}

func (m *SaveManager) writeAtomic(name string, payload []byte) error {
	finalPath := filepath.Join(m.dir, name)
	tmpPath := filepath.Join(m.dir, name+"."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmpPath, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, finalPath)
}

// Load reads <dir>/<slot>.json and rejects a mismatched save_version.
func (m *SaveManager) Load(slot string) (Envelope, error) {
	raw, err := os.ReadFile(filepath.Join(m.dir, slot+".json"))
	if err != nil {
		return Envelope{}, err
	}

	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Envelope{}, err
	}
	if envelope.SaveVersion != SaveVersion {
		return Envelope{}, ErrVersionMismatch{Found: envelope.SaveVersion}
	}
	return envelope, nil
}

// EnableAutosave turns on periodic autosaving, rotating between slots
// autosave_0 and autosave_1.
func (m *SaveManager) EnableAutosave(interval float64) {
	m.autosaveEnabled = true
	m.autosaveInterval = interval
	m.autosaveAccum = 0
	m.autosaveSlotIdx = 0
}

func (m *SaveManager) DisableAutosave() {
	m.autosaveEnabled = false
}

// TickAutosave accumulates dt and, when the accumulator crosses
// autosaveInterval, resets it and fires exactly once: pick the slot first,
// then save, then advance the index (spec.md §9 pins this ordering).
func (m *SaveManager) TickAutosave(dt float64, sceneFn func() SceneRecord) error {
	if !m.autosaveEnabled || m.autosaveInterval <= 0 {
		return nil
	}

	m.autosaveAccum += dt
	if m.autosaveAccum < m.autosaveInterval {
		return nil
	}
	m.autosaveAccum = 0

	slot := fmt.Sprintf("autosave_%d", m.autosaveSlotIdx)
	err := m.Save(slot, sceneFn())
	m.autosaveSlotIdx = (m.autosaveSlotIdx + 1) % 2
	return err
}

// ListSlots scans the directory for *.json files and reads envelope
// metadata from each.
func (m *SaveManager) ListSlots() ([]SlotInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, err
	}

	var slots []SlotInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(m.dir, e.Name()))
		if err != nil {
			continue
		}
		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			continue
		}
		slots = append(slots, SlotInfo{
			Name:      strings.TrimSuffix(e.Name(), ".json"),
			Timestamp: envelope.Timestamp,
			Version:   envelope.SaveVersion,
			SizeBytes: info.Size(),
		})
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Name < slots[j].Name })
	return slots, nil
}
