package primitives

// RecorderState is the InputRecorder's three states (spec.md §4.15).
type RecorderState int

const (
	Idle RecorderState = iota
	Recording
	Playing
)

// InputEvent is one captured input sample, matching the recording schema's
// per-event fields.
type InputEvent struct {
	EventType    string  `json:"eventType"`
	Keycode      int     `json:"keycode,omitempty"`
	MouseX       float64 `json:"mouseX,omitempty"`
	MouseY       float64 `json:"mouseY,omitempty"`
	MouseDeltaX  float64 `json:"mouseDeltaX,omitempty"`
	MouseDeltaY  float64 `json:"mouseDeltaY,omitempty"`
	Button       int     `json:"button,omitempty"`
	Modifiers    int     `json:"modifiers,omitempty"`
	Text         string  `json:"text,omitempty"`
}

// RecordedFrame is one finalized frame of captured input.
type RecordedFrame struct {
	FrameNumber int          `json:"frameNumber"`
	DeltaTime   float64      `json:"deltaTime"`
	Events      []InputEvent `json:"events"`
}

// Recording is the versioned JSON structure persisted/loaded for playback.
type Recording struct {
	Metadata RecordingMetadata `json:"metadata"`
	Frames   []RecordedFrame   `json:"frames"`
}

type RecordingMetadata struct {
	Version string `json:"version"`
}

// InputRecorder is the 3-state Idle/Recording/Playing machine described in
// spec.md §4.15, built on StateMachine for its transition guard.
type InputRecorder struct {
	sm          *StateMachine[RecorderState]
	frames      []RecordedFrame
	current     RecordedFrame
	frameNumber int

	playbackFrames []RecordedFrame
	playbackCursor int
}

const RecordingSchemaVersion = "1.0"

func NewInputRecorder() *InputRecorder {
	sm := NewStateMachine(Idle)
	sm.AllowTransition(Idle, Recording)
	sm.AllowTransition(Idle, Playing)
	sm.AllowTransition(Recording, Idle)
	sm.AllowTransition(Playing, Idle)
	return &InputRecorder{sm: sm}
}

func (r *InputRecorder) State() RecorderState { return r.sm.Current() }

// BeginRecording transitions Idle->Recording; no-op if already Recording,
// rejected if Playing.
func (r *InputRecorder) BeginRecording() bool {
	if r.sm.Current() == Recording {
		return true
	}
	if r.sm.Current() == Playing {
		return false
	}
	r.frames = nil
	r.frameNumber = 0
	r.current = RecordedFrame{FrameNumber: 0}
	return r.sm.SetState(Recording)
}

// CaptureEvent appends e to the current frame buffer while Recording.
func (r *InputRecorder) CaptureEvent(e InputEvent) {
	if r.sm.Current() != Recording {
		return
	}
	r.current.Events = append(r.current.Events, e)
}

// AdvanceFrame finalizes the current frame with dt and opens a new one
// while Recording; while Playing, it advances the playback cursor.
func (r *InputRecorder) AdvanceFrame(dt float64) {
	switch r.sm.Current() {
	case Recording:
		r.current.DeltaTime = dt
		r.frames = append(r.frames, r.current)
		r.frameNumber++
		r.current = RecordedFrame{FrameNumber: r.frameNumber}
	case Playing:
		r.playbackCursor++
	}
}

// StartPlayback transitions Idle->Playing over the given recording.
func (r *InputRecorder) StartPlayback(rec Recording) bool {
	if r.sm.Current() != Idle {
		return false
	}
	r.playbackFrames = rec.Frames
	r.playbackCursor = 0
	return r.sm.SetState(Playing)
}

// GetNextFrame returns the next frame's events and advances the cursor,
// returning an empty slice once exhausted.
func (r *InputRecorder) GetNextFrame() []InputEvent {
	if r.sm.Current() != Playing || r.playbackCursor >= len(r.playbackFrames) {
		return nil
	}
	events := r.playbackFrames[r.playbackCursor].Events
	r.playbackCursor++
	return events
}

// Stop returns the recorder to Idle from either Recording or Playing.
func (r *InputRecorder) Stop() {
	switch r.sm.Current() {
	case Recording:
		r.sm.SetState(Idle)
	case Playing:
		r.sm.SetState(Idle)
	}
}

// Export produces the versioned Recording structure for serialization.
func (r *InputRecorder) Export() Recording {
	return Recording{
		Metadata: RecordingMetadata{Version: RecordingSchemaVersion},
		Frames:   append([]RecordedFrame(nil), r.frames...),
	}
}
