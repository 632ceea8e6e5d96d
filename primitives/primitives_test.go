package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMachineRejectsUnregisteredTransition(t *testing.T) {
	sm := NewStateMachine("idle")
	assert.False(t, sm.SetState("running"))
	assert.Equal(t, "idle", sm.Current())
}

func TestStateMachineNoOpWhenTargetEqualsCurrent(t *testing.T) {
	sm := NewStateMachine("idle")
	assert.True(t, sm.SetState("idle"))
}

func TestStateMachineHooksRunAfterCommitAndSurvivePanics(t *testing.T) {
	sm := NewStateMachine("idle")
	sm.AllowTransition("idle", "running")

	var observed string
	sm.OnEnter("running", func(s string) { observed = s })
	sm.OnEnter("running", func(s string) { panic("boom") })

	assert.True(t, sm.SetState("running"))
	assert.Equal(t, "running", observed)
	assert.Equal(t, "running", sm.Current())
}

func TestEventDispatcherRunsListenersInPriorityOrder(t *testing.T) {
	d := NewEventDispatcher()
	var order []int

	d.AddListener("tick", func(e *Event) { order = append(order, 2) }, 2)
	d.AddListener("tick", func(e *Event) { order = append(order, 1) }, 1)
	d.AddListener("tick", func(e *Event) { order = append(order, 0) }, 0)

	d.Dispatch(&Event{Type: "tick"})
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestEventDispatcherStopsOnCancelled(t *testing.T) {
	d := NewEventDispatcher()
	var ran []int
	d.AddListener("tick", func(e *Event) { ran = append(ran, 0); e.Cancelled = true }, 0)
	d.AddListener("tick", func(e *Event) { ran = append(ran, 1) }, 1)

	d.Dispatch(&Event{Type: "tick"})
	assert.Equal(t, []int{0}, ran)
}

func TestEventDispatcherHandledStopsAndReturnsTrue(t *testing.T) {
	d := NewEventDispatcher()
	d.AddListener("tick", func(e *Event) { e.Handled = true }, 0)
	handled := d.Dispatch(&Event{Type: "tick"})
	assert.True(t, handled)
}

func TestEventDispatcherSurvivesHandlerPanic(t *testing.T) {
	d := NewEventDispatcher()
	var second bool
	d.AddListener("tick", func(e *Event) { panic("boom") }, 0)
	d.AddListener("tick", func(e *Event) { second = true }, 1)

	assert.NotPanics(t, func() { d.Dispatch(&Event{Type: "tick"}) })
	assert.True(t, second)
}

func TestPipelineShortCircuitsWhenNextNotCalled(t *testing.T) {
	p := NewPipeline()
	var ran []int
	p.Use(0, func(ctx any, next Next) { ran = append(ran, 0) })
	p.Use(1, func(ctx any, next Next) { ran = append(ran, 1); next(ctx) })

	p.Execute(nil)
	assert.Equal(t, []int{0}, ran)
}

func TestBufferPoolTryBorrowExhausted(t *testing.T) {
	pool := NewBufferPool(1, 16)
	s1 := pool.TryBorrow()
	require.NotNil(t, s1)

	s2 := pool.TryBorrow()
	assert.Nil(t, s2)

	s1.Release()
	s3 := pool.TryBorrow()
	assert.NotNil(t, s3)
}

func TestImmutableDAGRejectsCycles(t *testing.T) {
	g := NewImmutableDAG[string]()
	assert.True(t, g.AddEdge("a", "b"))
	assert.True(t, g.AddEdge("b", "c"))
	assert.False(t, g.AddEdge("c", "a"))
	assert.False(t, g.AddEdge("a", "a"))
}

func TestImmutableDAGTopoSort(t *testing.T) {
	g := NewImmutableDAG[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")

	order, ok := g.TopoSort()
	require.True(t, ok)
	posA, posB, posC := indexOf(order, "a"), indexOf(order, "b"), indexOf(order, "c")
	assert.True(t, posA < posB && posB < posC)
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func TestByteWriterReaderRoundTrip(t *testing.T) {
	w := NewByteWriter()
	w.WriteU32LE(42)
	w.WriteVarint(300)
	w.WriteString("hi")

	r := NewByteReader(w.Bytes())
	assert.Equal(t, uint32(42), r.ReadU32LE())
	assert.Equal(t, uint64(300), r.ReadVarint())
	assert.Equal(t, "hi", r.ReadString(2))
}

func TestByteReaderOverrunPanicsWithBufferOverrun(t *testing.T) {
	r := NewByteReader([]byte{1})
	defer func() {
		err, ok := recover().(*CodecError)
		require.True(t, ok)
		assert.Equal(t, BufferOverrun, err.Code)
	}()
	r.ReadU32LE()
}

func TestLengthDelimitedFrameRoundTrip(t *testing.T) {
	encoded := EncodeLengthDelimitedFrame([]byte("payload"))
	payload, consumed := TryDecodeLengthDelimitedFrame(encoded)
	assert.Equal(t, "payload", string(payload))
	assert.Equal(t, len(encoded), consumed)
}

func TestTryDecodeLengthDelimitedFrameIncomplete(t *testing.T) {
	encoded := EncodeLengthDelimitedFrame([]byte("payload"))
	payload, consumed := TryDecodeLengthDelimitedFrame(encoded[:3])
	assert.Nil(t, payload)
	assert.Equal(t, 0, consumed)
}

func TestInputRecorderRejectsBeginRecordingWhilePlaying(t *testing.T) {
	r := NewInputRecorder()
	r.StartPlayback(Recording{})
	assert.False(t, r.BeginRecording())
}

func TestInputRecorderCapturesAndAdvancesFrames(t *testing.T) {
	r := NewInputRecorder()
	require.True(t, r.BeginRecording())
	r.CaptureEvent(InputEvent{EventType: "key_down", Keycode: 32})
	r.AdvanceFrame(0.016)

	rec := r.Export()
	require.Len(t, rec.Frames, 1)
	assert.Equal(t, 0.016, rec.Frames[0].DeltaTime)
	assert.Len(t, rec.Frames[0].Events, 1)
}
