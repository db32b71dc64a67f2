// Package boxtree implements the LayoutTree: the box tree produced from a
// StyledDom, including anonymous-box fixups (spec §3.2, §4.1.1). The tree
// is an arena of LayoutNodes addressed by integer index (spec §9: "cyclic
// ownership → arena + indices"), generalizing the int16-slot, single-frame
// arena pattern used by the pack's standalone TUI arena
// (other_examples/…kungfusheep-glyph__arena.go) to a process-lifetime,
// diffable int32 arena with an explicit free-list for subtree teardown.
package boxtree

import (
	"github.com/cogentlayout/corelayout/pkg/geom32"
	"github.com/cogentlayout/corelayout/pkg/styledom"
	"github.com/cogentlayout/corelayout/pkg/styles"
)

// Index addresses a LayoutNode within a Tree's arena. -1 is invalid/none.
type Index int32

const Invalid Index = -1

// FormattingContext is the tagged variant for how a node lays out its
// children (spec §3.2, §9 "polymorphism over formatting contexts → tagged
// variants, no inheritance").
type FormattingContext uint8

const (
	FCBlock FormattingContext = iota
	FCInline
	FCFlex
	FCGrid
	FCTable
	FCTableRowGroup
	FCTableRow
	FCTableCell
)

// DirtyFlag is the reconciler's per-node dirty state (spec §3.2, §4.2).
type DirtyFlag uint8

const (
	Clean DirtyFlag = iota
	IntrinsicOnly
	Layout
	Structural
)

// BoxProps is the resolved box-model subset of Style relevant to layout
// (spec §3.2 "box_props: margin, border, padding, box_sizing").
type BoxProps struct {
	Margin, Border, Padding styles.Edges
	BoxSizing               styles.BoxSizing
}

// InlineLayoutResult is the opaque handle produced by the external text
// engine for an Inline formatting context root (spec §3.2, §6.2).
type InlineLayoutResult struct {
	Bounds       geom32.Vector2
	LastBaseline float32
	Handle       any // engine-specific glyph-run handle, opaque to this package
}

// LayoutNode is one node of the box tree (spec §3.2).
type LayoutNode struct {
	StyledID styledom.NodeID // NoID for anonymous boxes

	Parent   Index
	Children []Index

	FormattingContext  FormattingContext
	EstablishesNewBFC  bool

	Style    styles.Style // defaulted for anonymous boxes
	Box      BoxProps

	NodeDataHash uint64
	SubtreeHash  uint64
	Dirty        DirtyFlag

	IntrinsicMin, IntrinsicMax geom32.Vector2
	HasIntrinsic               bool

	UsedSize       geom32.Vector2
	HasUsedSize    bool
	RelPos         geom32.Vector2
	HasRelPos      bool
	Baseline       float32
	HasBaseline    bool

	Inline *InlineLayoutResult

	// Kind/Text/Image/IFrameFunc mirror the backing StyledNode's intrinsic
	// content for leaves; unused (zero) for anonymous and non-leaf nodes.
	Kind       styledom.Kind
	Text       string
	Image      styledom.ImageContent
	IFrameFunc styledom.IFrameCallback

	// free marks a slot available for reuse in the arena free-list.
	free bool
}

// IsAnonymous reports whether this node has no backing StyledNode
// (spec §3.2 invariant: "Anonymous boxes never carry a StyledNode id").
func (n *LayoutNode) IsAnonymous() bool { return n.StyledID == styledom.NoID }

// IsClean reports the invariant from spec §3.2: "When dirty_flag == Clean,
// used_size and relative_position are Some".
func (n *LayoutNode) IsClean() bool {
	return n.Dirty == Clean && n.HasUsedSize && n.HasRelPos
}

// Tree is the arena-of-indices LayoutTree (spec §3.2/§9).
type Tree struct {
	Nodes []LayoutNode
	free  []Index
	Root  Index
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{Root: Invalid}
}

// Alloc reserves a slot for a new node, reusing a freed slot if available.
func (t *Tree) Alloc(n LayoutNode) Index {
	if len(t.free) > 0 {
		idx := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		n.free = false
		t.Nodes[idx] = n
		return idx
	}
	idx := Index(len(t.Nodes))
	n.free = false
	t.Nodes = append(t.Nodes, n)
	return idx
}

// Get returns a pointer to the node at idx. Panics on an invalid index,
// matching spec §4.1.5: "Invalid tree structure is a fatal internal error."
func (t *Tree) Get(idx Index) *LayoutNode {
	if idx < 0 || int(idx) >= len(t.Nodes) || t.Nodes[idx].free {
		panic("boxtree: invalid node index")
	}
	return &t.Nodes[idx]
}

// FreeSubtree recursively frees idx and its descendants back to the
// free-list (spec §3.2 lifecycle: "destroyed when the reconciler determines
// its backing StyledNode disappeared"; spec §9: "subtrees are dropped by
// vector truncation / free-list").
func (t *Tree) FreeSubtree(idx Index) {
	if idx == Invalid {
		return
	}
	n := t.Get(idx)
	children := n.Children
	n.free = true
	n.Children = nil
	t.free = append(t.free, idx)
	for _, c := range children {
		t.FreeSubtree(c)
	}
}

// Walk visits idx and its descendants in pre-order.
func (t *Tree) Walk(idx Index, visit func(Index, *LayoutNode) bool) {
	if idx == Invalid {
		return
	}
	n := t.Get(idx)
	if !visit(idx, n) {
		return
	}
	for _, c := range n.Children {
		t.Walk(c, visit)
	}
}
