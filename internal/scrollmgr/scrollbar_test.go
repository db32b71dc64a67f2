package scrollmgr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cogentlayout/corelayout/internal/config"
	"github.com/cogentlayout/corelayout/internal/scrollmgr"
	"github.com/cogentlayout/corelayout/pkg/geom32"
)

// TestGeometry_NoVerticalBarWhenContentFitsViewport covers spec §4.3.4: "a
// scrollbar is only emitted when content exceeds the viewport on that axis".
func TestGeometry_NoVerticalBarWhenContentFitsViewport(t *testing.T) {
	st := &scrollmgr.State{ContentSize: geom32.Vec2(400, 300), ViewportSize: geom32.Vec2(400, 300)}
	_, _, hasV, hasH := scrollmgr.Geometry(st, config.Default(), geom32.Vector2{}, geom32.Vec2(400, 300), false)
	assert.False(t, hasV)
	assert.False(t, hasH)
}

// TestGeometry_ThumbRatioMatchesViewportToContentRatio checks the core
// scrollbar-geometry formula: an unscrolled, half-visible content area
// produces a half-length thumb flush against the top of the track.
func TestGeometry_ThumbRatioMatchesViewportToContentRatio(t *testing.T) {
	st := &scrollmgr.State{
		ContentSize:  geom32.Vec2(400, 1000),
		ViewportSize: geom32.Vec2(400, 500),
	}
	cfg := config.Default()
	vertical, _, hasV, hasH := scrollmgr.Geometry(st, cfg, geom32.Vector2{}, geom32.Vec2(400, 500), false)
	assert.True(t, hasV)
	assert.False(t, hasH)

	assert.InDelta(t, 500*0.5, vertical.Thumb.Size.Y, 0.01, "thumb length is viewport/content of the track")
	assert.InDelta(t, 0, vertical.Thumb.Pos.Y, 0.01, "unscrolled: thumb sits at the top of the track")
}

// TestGeometry_ThumbNeverShrinksBelowMinRatio is spec §4.3.4's floor: very
// long content must not collapse the thumb to invisibility.
func TestGeometry_ThumbNeverShrinksBelowMinRatio(t *testing.T) {
	st := &scrollmgr.State{
		ContentSize:  geom32.Vec2(400, 1_000_000),
		ViewportSize: geom32.Vec2(400, 500),
	}
	cfg := config.Default()
	vertical, _, hasV, _ := scrollmgr.Geometry(st, cfg, geom32.Vector2{}, geom32.Vec2(400, 500), false)
	assert.True(t, hasV)

	minLen := 500 * cfg.ThumbMinRatio
	assert.GreaterOrEqual(t, vertical.Thumb.Size.Y, minLen-0.01)
}

// TestGeometry_ThumbReachesTrackEndAtMaxScroll confirms the progress-based
// thumb offset reaches the end of the usable track at LogicalOffset==MaxOffset.
func TestGeometry_ThumbReachesTrackEndAtMaxScroll(t *testing.T) {
	st := &scrollmgr.State{
		ContentSize:  geom32.Vec2(400, 1000),
		ViewportSize: geom32.Vec2(400, 500),
	}
	st.LogicalOffset = st.MaxOffset()
	cfg := config.Default()
	vertical, _, _, _ := scrollmgr.Geometry(st, cfg, geom32.Vector2{}, geom32.Vec2(400, 500), false)

	trackEnd := vertical.Track.Pos.Y + vertical.Track.Size.Y
	thumbEnd := vertical.Thumb.Pos.Y + vertical.Thumb.Size.Y
	assert.InDelta(t, trackEnd, thumbEnd, 0.01)
}

func TestGeometry_WithButtonsReservesSpaceAtBothTrackEnds(t *testing.T) {
	st := &scrollmgr.State{
		ContentSize:  geom32.Vec2(400, 1000),
		ViewportSize: geom32.Vec2(400, 500),
	}
	cfg := config.Default()
	vertical, _, hasV, _ := scrollmgr.Geometry(st, cfg, geom32.Vector2{}, geom32.Vec2(400, 500), true)
	require := assert.New(t)
	require.True(hasV)
	require.True(vertical.HasButtons)
	require.InDelta(cfg.ScrollbarWidthDots, vertical.ButtonLo.Size.Y, 0.01)
	require.InDelta(cfg.ScrollbarWidthDots, vertical.ButtonHi.Size.Y, 0.01)
	require.InDelta(vertical.Track.Pos.Y+vertical.Track.Size.Y-cfg.ScrollbarWidthDots, vertical.ButtonHi.Pos.Y, 0.01)
}
