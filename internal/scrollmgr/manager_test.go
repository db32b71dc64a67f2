package scrollmgr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/internal/config"
	"github.com/cogentlayout/corelayout/internal/scrollmgr"
	"github.com/cogentlayout/corelayout/pkg/geom32"
)

const node = boxtree.Index(1)

func newTestManager() *scrollmgr.Manager {
	m := scrollmgr.NewManager(config.Default())
	m.Register(node, geom32.Vec2(1000, 2000), geom32.Vec2(1000, 500))
	return m
}

// TestWheelMomentum_ConvergesToRestWithinBounds is spec §8 scenario 3: three
// WheelDiscrete inputs of dy=100 each (compressed into one 300px impulse,
// per §4.3.1's same-node wheel compression), settling with zero velocity at
// clamp(previous+D) — position stable in (300, 350).
func TestWheelMomentum_ConvergesToRestWithinBounds(t *testing.T) {
	m := newTestManager()
	for i := 0; i < 3; i++ {
		m.Queue.Send(scrollmgr.ScrollInput{Node: node, Source: scrollmgr.SourceWheel, Delta: geom32.Vec2(0, 100)})
	}

	dt := float32(1.0 / 60.0)
	var last []scrollmgr.ScrollTo
	for i := 0; i < 900; i++ {
		last = m.Tick(dt)
		if len(last) == 0 {
			break
		}
	}

	st, ok := m.State(node)
	require.True(t, ok)
	assert.InDelta(t, 0, st.Velocity.X, 0.01)
	assert.InDelta(t, 0, st.Velocity.Y, 0.01)
	assert.False(t, st.Animating())
	assert.GreaterOrEqual(t, st.LogicalOffset.Y, float32(300), "clamp(previous+D): previous=0, D=300")
	assert.LessOrEqual(t, st.LogicalOffset.Y, float32(350))
}

// TestOverscroll_SpringSettlesBackToBounds is spec §8 scenario 4: scrolling
// past the content edge rubber-bands, then the spring pulls it back to
// exactly the boundary once velocity decays.
func TestOverscroll_SpringSettlesBackToBounds(t *testing.T) {
	m := newTestManager()
	// A single huge wheel delta shoves far past the top edge.
	m.Queue.Send(scrollmgr.ScrollInput{Node: node, Source: scrollmgr.SourceWheel, Delta: geom32.Vec2(0, -5000)})

	dt := float32(1.0 / 60.0)
	sawOverscroll := false
	for i := 0; i < 1200; i++ {
		m.Tick(dt)
		st, _ := m.State(node)
		if st.Overscroll.Y != 0 {
			sawOverscroll = true
		}
		if !st.Animating() {
			break
		}
	}
	assert.True(t, sawOverscroll, "expected the rubber-band phase to be observed at least once")

	st, ok := m.State(node)
	require.True(t, ok)
	assert.InDelta(t, 0, st.LogicalOffset.Y, 0.5, "settles back to the content edge")
	assert.Equal(t, float32(0), st.Overscroll.Y)
}

func TestProgrammaticScroll_JumpsImmediatelyWithoutSmooth(t *testing.T) {
	m := newTestManager()
	m.Queue.Send(scrollmgr.ScrollInput{Node: node, Source: scrollmgr.SourceProgrammatic, Target: geom32.Vec2(0, 300)})
	m.Tick(1.0 / 60.0)

	st, ok := m.State(node)
	require.True(t, ok)
	assert.Equal(t, float32(300), st.LogicalOffset.Y)
	assert.False(t, st.Animating())
}

func TestInputQueue_CompressesSameClassWheelEvents(t *testing.T) {
	var q scrollmgr.InputQueue
	q.Send(scrollmgr.ScrollInput{Node: node, Source: scrollmgr.SourceWheel, Delta: geom32.Vec2(0, 10)})
	q.Send(scrollmgr.ScrollInput{Node: node, Source: scrollmgr.SourceWheel, Delta: geom32.Vec2(0, 5)})

	all := q.DrainAll()
	require.Len(t, all, 1, "same-node wheel deltas compress into one queued input")
	assert.Equal(t, float32(15), all[0].Delta.Y)
}

func TestInputQueue_ProgrammaticInputsNeverCompress(t *testing.T) {
	var q scrollmgr.InputQueue
	q.Send(scrollmgr.ScrollInput{Node: node, Source: scrollmgr.SourceProgrammatic, Target: geom32.Vec2(0, 10)})
	q.Send(scrollmgr.ScrollInput{Node: node, Source: scrollmgr.SourceProgrammatic, Target: geom32.Vec2(0, 20)})

	all := q.DrainAll()
	assert.Len(t, all, 2, "each distinct scroll-to intent must be preserved")
}
