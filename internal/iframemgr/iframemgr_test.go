package iframemgr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/internal/config"
	"github.com/cogentlayout/corelayout/internal/iframemgr"
	"github.com/cogentlayout/corelayout/pkg/geom32"
	"github.com/cogentlayout/corelayout/pkg/styledom"
)

// TestCheckReinvoke_InitialRenderThenAtMostOnceEdgeApproach is spec §8
// scenario 5: the first check always reinvokes; repeatedly checking while
// parked within EdgeThreshold of the same virtual edge reinvokes only once,
// re-arming only after moving away and back.
func TestCheckReinvoke_InitialRenderThenAtMostOnceEdgeApproach(t *testing.T) {
	cfg := config.Default()
	m := iframemgr.NewManager(cfg)

	node := boxtree.Index(1)
	producer := styledom.IFrameCallback(func(in styledom.IFrameInput) styledom.IFrameOutput {
		return styledom.IFrameOutput{
			Child:             &styledom.Node{ID: 99, Kind: styledom.KindText, Text: "virtualized"},
			VirtualScrollSize: [2]float32{1000, 5000},
		}
	})

	reason := m.CheckReinvoke(1, node, geom32.Vector2{}, geom32.Vec2(400, 300))
	assert.Equal(t, iframemgr.ReasonInitialRender, reason)
	m.Invoke(1, node, producer, geom32.Vector2{}, geom32.Vec2(400, 300), geom32.Vec2(1000, 5000))

	// Now parked near the bottom edge (within EdgeThreshold of virtual
	// extent), with x held mid-range so the left/right checks never fire.
	near := geom32.Vec2(300, 5000-300-cfg.EdgeThreshold+1)
	r1 := m.CheckReinvoke(1, node, near, geom32.Vec2(400, 300))
	assert.Equal(t, iframemgr.ReasonEdgeScrolled, r1, "first approach within threshold reinvokes")

	r2 := m.CheckReinvoke(1, node, near, geom32.Vec2(400, 300))
	assert.Equal(t, iframemgr.ReasonNone, r2, "latched: staying within threshold does not reinvoke again")

	// Move away from every edge, then back: the latch re-arms.
	far := geom32.Vec2(300, 2500)
	rFar := m.CheckReinvoke(1, node, far, geom32.Vec2(400, 300))
	assert.Equal(t, iframemgr.ReasonNone, rFar)

	rBack := m.CheckReinvoke(1, node, near, geom32.Vec2(400, 300))
	assert.Equal(t, iframemgr.ReasonEdgeScrolled, rBack, "re-approaching after leaving reinvokes once more")
}

func TestInvoke_PanicInProducerDegradesToEmptyRatherThanCrashing(t *testing.T) {
	m := iframemgr.NewManager(config.Default())
	panicky := styledom.IFrameCallback(func(in styledom.IFrameInput) styledom.IFrameOutput {
		panic("boom")
	})

	var child *styledom.Node
	assert.NotPanics(t, func() {
		child = m.Invoke(1, boxtree.Index(1), panicky, geom32.Vector2{}, geom32.Vec2(100, 100), geom32.Vec2(100, 100))
	})
	assert.Nil(t, child)
}
