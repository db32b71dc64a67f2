package textbridge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cogentlayout/corelayout/internal/textbridge"
	"github.com/cogentlayout/corelayout/pkg/bridge"
	"github.com/cogentlayout/corelayout/pkg/geom32"
)

// TestMeasureIntrinsic_NoFontFallsBackToFixedAdvanceHeuristic exercises the
// fontless degrade path (no font.Face loaded): measurement must still
// produce sane, monotonic numbers rather than panicking or returning zero.
func TestMeasureIntrinsic_NoFontFallsBackToFixedAdvanceHeuristic(t *testing.T) {
	e := textbridge.NewGoTextEngine(nil, 16)

	shortMin, shortMax := e.MeasureIntrinsic("hi", nil)
	longMin, longMax := e.MeasureIntrinsic("hello world", nil)

	assert.Greater(t, shortMax, float32(0))
	assert.Greater(t, longMax, shortMax, "a longer run has greater max-content width")
	assert.LessOrEqual(t, shortMin, shortMax)
	assert.LessOrEqual(t, longMin, longMax)
}

// TestMeasureIntrinsic_MinContentIsLongestWordNotWholeRun checks the
// longest-unbreakable-run approximation: splitting "hello world" into two
// words means min-content (the longest word alone) must be strictly less
// than max-content (the whole unbroken run).
func TestMeasureIntrinsic_MinContentIsLongestWordNotWholeRun(t *testing.T) {
	e := textbridge.NewGoTextEngine(nil, 16)
	min, max := e.MeasureIntrinsic("hello world", nil)
	assert.Less(t, min, max)
}

// TestShapeInlineContent_WrapsWhenRunExceedsAvailableWidth is spec §6.2's
// inline-shaping constraint contract: a text run that would overflow the
// available width wraps onto a taller multi-line bounds box instead of
// reporting one infinitely-wide line.
func TestShapeInlineContent_WrapsWhenRunExceedsAvailableWidth(t *testing.T) {
	e := textbridge.NewGoTextEngine(nil, 16)
	items := []bridge.InlineItem{
		{Kind: bridge.InlineText, Text: "aaaaaaaaaa"},
		{Kind: bridge.InlineText, Text: "bbbbbbbbbb"},
	}

	unlimited, err := e.ShapeInlineContent(items, bridge.InlineConstraints{Unlimited: true})
	assert.NoError(t, err)

	constrained, err := e.ShapeInlineContent(items, bridge.InlineConstraints{AvailableWidth: unlimited.Bounds.X * 0.6})
	assert.NoError(t, err)

	assert.LessOrEqual(t, constrained.Bounds.X, unlimited.Bounds.X, "wrapped content never exceeds the unlimited width")
	assert.Greater(t, constrained.Bounds.Y, unlimited.Bounds.Y, "wrapped content stacks a second line")
}

// TestShapeInlineContent_InlineBlockBoxContributesOwnSizeAndBaseline covers
// the InlineBlockBox branch: an inline-block item's declared size/baseline
// feed directly into the line box rather than being text-measured.
func TestShapeInlineContent_InlineBlockBoxContributesOwnSizeAndBaseline(t *testing.T) {
	e := textbridge.NewGoTextEngine(nil, 16)
	items := []bridge.InlineItem{
		{Kind: bridge.InlineBlockBox, Size: geom32.Vec2(40, 25), Baseline: 20},
	}
	res, err := e.ShapeInlineContent(items, bridge.InlineConstraints{Unlimited: true})
	assert.NoError(t, err)
	assert.Equal(t, float32(40), res.Bounds.X)
	assert.Equal(t, float32(25), res.Bounds.Y)
	assert.Equal(t, float32(20), res.LastBaseline)
}
