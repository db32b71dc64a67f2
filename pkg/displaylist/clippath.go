package displaylist

import (
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/cogentlayout/corelayout/pkg/geom32"
)

// RoundedRectPath builds the vector clip path for a PushClip item with a
// non-zero ClipRadius (spec §4.5 step 2: "a border-radius establishes a
// rounded-rect clip region"). Generate does not call it: a PushClip item
// carries only Bounds and ClipRadius, from which a consumer can build the
// outline with this function.
//
// Grounded on github.com/srwiley/rasterx, the vector rasterizer the teacher
// depends on for rounded-rect/curve geometry (paint/raster is a fork of
// it); built from rasterx.Path's own Start/Line/QuadBezier primitives
// rather than a higher-level shape helper, to stay on the small, stable
// part of that API.
func RoundedRectPath(r geom32.Rect, radius float32) *rasterx.Path {
	p := &rasterx.Path{}
	x0, y0 := r.Pos.X, r.Pos.Y
	x1, y1 := r.Pos.X+r.Size.X, r.Pos.Y+r.Size.Y
	rad := radius
	if maxRad := geom32.Min(r.Size.X, r.Size.Y) / 2; rad > maxRad {
		rad = maxRad
	}

	pt := func(x, y float32) fixed.Point26_6 {
		return fixed.Point26_6{X: toFixed(x), Y: toFixed(y)}
	}

	p.Start(pt(x0+rad, y0))
	p.Line(pt(x1-rad, y0))
	p.QuadBezier(pt(x1, y0), pt(x1, y0+rad))
	p.Line(pt(x1, y1-rad))
	p.QuadBezier(pt(x1, y1), pt(x1-rad, y1))
	p.Line(pt(x0+rad, y1))
	p.QuadBezier(pt(x0, y1), pt(x0, y1-rad))
	p.Line(pt(x0, y0+rad))
	p.QuadBezier(pt(x0, y0), pt(x0+rad, y0))
	p.Stop(true)
	return p
}

func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
