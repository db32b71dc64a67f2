package reconcile

import (
	"encoding/binary"
	"hash"
	"math"
	"reflect"

	"github.com/cogentlayout/corelayout/pkg/styledom"
)

func mathFloat32bits(f float32) uint32 {
	return math.Float32bits(f)
}

// writeStyle folds the fields of Style that affect layout into the hash.
// Paint-only fields (opacity, transform, z-index) are intentionally
// excluded from node_data_hash: they affect §4.5 display-list generation,
// not box geometry, so changing only them should not force a layout_root —
// a deliberate refinement left implicit by spec §4.2.
func writeStyle(h hash.Hash64, n *styledom.Node) {
	s := n.Style
	var buf [8]byte
	putF := func(f float32) {
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(f))
		h.Write(buf[:4])
	}
	putI := func(i int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(i))
		h.Write(buf[:])
	}
	putI(int64(s.Display))
	putI(int64(s.Position))
	putI(int64(s.Overflow.X))
	putI(int64(s.Overflow.Y))
	putI(int64(s.BoxSizing))
	for _, e := range []struct{ t, r, b, l float32 }{
		{s.Margin.Top, s.Margin.Right, s.Margin.Bottom, s.Margin.Left},
		{s.Border.Top, s.Border.Right, s.Border.Bottom, s.Border.Left},
		{s.Padding.Top, s.Padding.Right, s.Padding.Bottom, s.Padding.Left},
	} {
		putF(e.t)
		putF(e.r)
		putF(e.b)
		putF(e.l)
	}
	putF(s.Min.X)
	putF(s.Min.Y)
	putF(s.Max.X)
	putF(s.Max.Y)
	putF(s.Grow.X)
	putF(s.Grow.Y)
	putF(s.Gap.X)
	putF(s.Gap.Y)
	putI(int64(s.Direction))
	if s.Wrap {
		putI(1)
	} else {
		putI(0)
	}
	putI(int64(s.Columns))
	putI(int64(s.ColSpan))
	putF(s.ScrollbarWidth)
	putF(s.BorderRadius)
	putF(s.Top)
	putF(s.Right)
	putF(s.Bottom)
	putF(s.Left)
	putF(s.Size.Width)
	putF(s.Size.Height)
	putF(s.Size.WidthPct)
	putF(s.Size.HeightPct)
	for _, b := range []bool{s.Size.WidthAuto, s.Size.HeightAuto, s.Size.WidthIsPct, s.Size.HeightIsPct} {
		if b {
			putI(1)
		} else {
			putI(0)
		}
	}
}

// funcIdentity returns a stable-for-process identity for a callback value,
// used only to detect "the producer function itself changed" (spec §4.2).
// Go gives no portable hash of a func value; reflect.ValueOf(...).Pointer()
// is stable across calls for the *same* underlying func within one process,
// which is all §4.2 needs (the reconciler never compares hashes across
// process restarts).
func funcIdentity(f styledom.IFrameCallback) uint64 {
	if f == nil {
		return 0
	}
	return uint64(reflect.ValueOf(f).Pointer())
}
