package debugproto

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/maruel/natural"

	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/internal/scrollmgr"
	"github.com/cogentlayout/corelayout/pkg/corelayout"
	"github.com/cogentlayout/corelayout/pkg/geom32"
)

// Handler dispatches Commands against a running Pipeline. One Handler wraps
// exactly one Pipeline instance, matching the protocol's implicit
// single-document assumption (spec §6.5).
type Handler struct {
	Pipeline *corelayout.Pipeline
}

func NewHandler(p *corelayout.Pipeline) *Handler { return &Handler{Pipeline: p} }

// Handle processes one Command and returns its Response.
func (h *Handler) Handle(cmd Command) Response {
	result, err := h.dispatch(cmd)
	if err != nil {
		return Response{ID: cmd.ID, Error: err.Error()}
	}
	return Response{ID: cmd.ID, Result: result}
}

func (h *Handler) dispatch(cmd Command) (any, error) {
	switch cmd.Method {
	case MethodGetLayoutTree:
		return h.getLayoutTree(), nil
	case MethodGetNodeLayout:
		var p struct{ NodeID int32 }
		if err := json.Unmarshal(cmd.Params, &p); err != nil {
			return nil, err
		}
		return h.getNodeLayout(boxtree.Index(p.NodeID))
	case MethodGetScrollStates:
		return h.getScrollStates(), nil
	case MethodGetScrollableNodes:
		return h.getScrollableNodes(), nil
	case MethodGetScrollbarInfo:
		var p struct{ NodeID int32 }
		if err := json.Unmarshal(cmd.Params, &p); err != nil {
			return nil, err
		}
		return h.getScrollbarInfo(boxtree.Index(p.NodeID))
	case MethodScrollNodeTo:
		var p struct {
			NodeID int32
			X, Y   float32
			Smooth bool
		}
		if err := json.Unmarshal(cmd.Params, &p); err != nil {
			return nil, err
		}
		h.Pipeline.Scroll.Queue.Send(scrollmgr.ScrollInput{
			Node:   boxtree.Index(p.NodeID),
			Source: scrollmgr.SourceProgrammatic,
			Target: geom32.Vec2(p.X, p.Y),
			Smooth: p.Smooth,
		})
		return map[string]bool{"ok": true}, nil
	case MethodScrollNodeBy:
		var p struct {
			NodeID int32
			DX, DY float32
		}
		if err := json.Unmarshal(cmd.Params, &p); err != nil {
			return nil, err
		}
		h.Pipeline.Scroll.Queue.Send(scrollmgr.ScrollInput{
			Node:   boxtree.Index(p.NodeID),
			Source: scrollmgr.SourceWheel,
			Delta:  geom32.Vec2(p.DX, p.DY),
		})
		return map[string]bool{"ok": true}, nil
	case MethodGetState:
		return map[string]string{"state": "ready"}, nil
	default:
		return nil, fmt.Errorf("debugproto: unsupported method %q", cmd.Method)
	}
}

// nodeLayoutInfo is one node's row in get_layout_tree / get_node_layout.
type nodeLayoutInfo struct {
	NodeID     int32   `json:"node_id"`
	Kind       string  `json:"kind"`
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Width      float32 `json:"width"`
	Height     float32 `json:"height"`
	Anonymous  bool    `json:"anonymous"`
	ChildCount int     `json:"child_count"`
}

func (h *Handler) getLayoutTree() []nodeLayoutInfo {
	t := h.Pipeline.Cache.Tree
	var out []nodeLayoutInfo
	if t.Root == boxtree.Invalid {
		return out
	}
	t.Walk(t.Root, func(idx boxtree.Index, n *boxtree.LayoutNode) bool {
		pos := h.Pipeline.Cache.AbsolutePositions[idx]
		out = append(out, nodeLayoutInfo{
			NodeID:     int32(idx),
			Kind:       n.Kind.String(),
			X:          pos.X,
			Y:          pos.Y,
			Width:      n.UsedSize.X,
			Height:     n.UsedSize.Y,
			Anonymous:  n.IsAnonymous(),
			ChildCount: len(n.Children),
		})
		return true
	})
	// Natural ordering (node_1, node_2, ..., node_10) rather than lexical,
	// for any client rendering these ids as strings.
	sort.Slice(out, func(i, j int) bool {
		return natural.Less(fmt.Sprint(out[i].NodeID), fmt.Sprint(out[j].NodeID))
	})
	return out
}

func (h *Handler) getNodeLayout(idx boxtree.Index) (nodeLayoutInfo, error) {
	t := h.Pipeline.Cache.Tree
	if int(idx) < 0 || int(idx) >= len(t.Nodes) {
		return nodeLayoutInfo{}, fmt.Errorf("debugproto: no such node %d", idx)
	}
	n := t.Get(idx)
	pos := h.Pipeline.Cache.AbsolutePositions[idx]
	return nodeLayoutInfo{
		NodeID: int32(idx), Kind: n.Kind.String(),
		X: pos.X, Y: pos.Y, Width: n.UsedSize.X, Height: n.UsedSize.Y,
		Anonymous: n.IsAnonymous(), ChildCount: len(n.Children),
	}, nil
}

type scrollStateInfo struct {
	NodeID  int32   `json:"node_id"`
	OffsetX float32 `json:"offset_x"`
	OffsetY float32 `json:"offset_y"`
	MaxX    float32 `json:"max_x"`
	MaxY    float32 `json:"max_y"`
}

func (h *Handler) getScrollStates() []scrollStateInfo {
	var out []scrollStateInfo
	t := h.Pipeline.Cache.Tree
	if t.Root == boxtree.Invalid {
		return out
	}
	t.Walk(t.Root, func(idx boxtree.Index, n *boxtree.LayoutNode) bool {
		st, ok := h.Pipeline.Scroll.State(idx)
		if !ok {
			return true
		}
		max := st.MaxOffset()
		out = append(out, scrollStateInfo{
			NodeID: int32(idx), OffsetX: st.LogicalOffset.X, OffsetY: st.LogicalOffset.Y,
			MaxX: max.X, MaxY: max.Y,
		})
		return true
	})
	return out
}

func (h *Handler) getScrollableNodes() []int32 {
	var out []int32
	for _, s := range h.getScrollStates() {
		out = append(out, s.NodeID)
	}
	return out
}

type scrollbarInfo struct {
	HasVertical   bool `json:"has_vertical"`
	HasHorizontal bool `json:"has_horizontal"`
}

func (h *Handler) getScrollbarInfo(idx boxtree.Index) (scrollbarInfo, error) {
	st, ok := h.Pipeline.Scroll.State(idx)
	if !ok {
		return scrollbarInfo{}, fmt.Errorf("debugproto: node %d is not scrollable", idx)
	}
	_, _, hasV, hasH := scrollmgr.Geometry(&st, h.Pipeline.Config, geom32.Vector2{}, st.ViewportSize, true)
	return scrollbarInfo{HasVertical: hasV, HasHorizontal: hasH}, nil
}
