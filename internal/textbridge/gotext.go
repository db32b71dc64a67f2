// Package textbridge provides a reference bridge.TextEngine implementation
// for integration tests and the debug-protocol demo fixture (spec §6.2
// explicitly keeps text shaping out of CORE scope; this adapter is the
// "a real implementation exists and plugs in cleanly" proof, grounded on
// github.com/go-text/typesetting — the shaping library the teacher itself
// depends on via text/shaped/shapers/shapedgt, reached here directly since
// the teacher's own higher-level text/shaped package has no retrievable
// source).
package textbridge

import (
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/cogentlayout/corelayout/pkg/bridge"
	"github.com/cogentlayout/corelayout/pkg/geom32"
)

// GoTextEngine shapes inline text runs with go-text/typesetting's
// HarfBuzz-derived shaper. Font is optional: with none loaded, measurement
// degrades to a fixed-advance heuristic (still useful for layout tests that
// don't care about exact glyph metrics) rather than failing.
type GoTextEngine struct {
	Font     font.Face
	FontSize float32
	shaper   shaping.HarfbuzzShaper
}

func NewGoTextEngine(f font.Face, sizePx float32) *GoTextEngine {
	if sizePx <= 0 {
		sizePx = 16
	}
	return &GoTextEngine{Font: f, FontSize: sizePx}
}

func (e *GoTextEngine) ShapeInlineContent(items []bridge.InlineItem, c bridge.InlineConstraints) (bridge.InlineResult, error) {
	var x, lineHeight, lastBaseline float32
	var maxX, prevLines float32
	for _, it := range items {
		switch it.Kind {
		case bridge.InlineText:
			w, asc, desc := e.measureRun(it.Text)
			if !c.Unlimited && c.AvailableWidth > 0 && x+w > c.AvailableWidth && x > 0 {
				maxX = geom32.Max(maxX, x)
				x = 0
				prevLines += lineHeight
				lineHeight = 0
			}
			x += w
			lineHeight = geom32.Max(lineHeight, asc+desc)
			lastBaseline = geom32.Max(lastBaseline, asc)
		case bridge.InlineBlockBox:
			x += it.Size.X
			lineHeight = geom32.Max(lineHeight, it.Size.Y)
			lastBaseline = geom32.Max(lastBaseline, it.Baseline)
		}
		maxX = geom32.Max(maxX, x)
	}
	return bridge.InlineResult{Bounds: geom32.Vec2(maxX, prevLines+lineHeight), LastBaseline: lastBaseline}, nil
}

func (e *GoTextEngine) MeasureIntrinsic(text string, styleKey any) (min, max float32) {
	w, _, _ := e.measureRun(text)
	// min-content for text is its longest unbreakable run; approximated
	// here as the widest single word, since true line-breaking opportunity
	// data lives in the shaper's Output, not in this measurement shortcut.
	var longestWord, cur float32
	runWidth := func(s []rune) float32 {
		wv, _, _ := e.measureRun(string(s))
		return wv
	}
	var word []rune
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			cur = runWidth(word)
			longestWord = geom32.Max(longestWord, cur)
			word = word[:0]
			continue
		}
		word = append(word, r)
	}
	longestWord = geom32.Max(longestWord, runWidth(word))
	return longestWord, w
}

// measureRun shapes text with the HarfBuzz-derived shaper when a font is
// loaded, falling back to a fixed per-rune advance otherwise.
func (e *GoTextEngine) measureRun(text string) (width, ascent, descent float32) {
	if e.Font == nil || text == "" {
		n := float32(len([]rune(text)))
		return n * e.FontSize * 0.55, e.FontSize * 0.8, e.FontSize * 0.2
	}

	runes := []rune(text)
	input := shaping.Input{
		Text:     runes,
		RunStart: 0,
		RunEnd:   len(runes),
		Face:     e.Font,
		Size:     fixed.I(int(e.FontSize)),
		Script:   language.Latin,
	}
	out := e.shaper.Shape(input)

	var advance float32
	for _, g := range out.Glyphs {
		advance += float32(g.XAdvance) / 64
	}
	return advance, float32(out.LineBounds.Ascent) / 64, -float32(out.LineBounds.Descent) / 64
}
