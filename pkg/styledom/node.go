// Package styledom defines the input tree consumed by the layout pipeline:
// a tree of nodes that already carry resolved style (CSS resolution, font
// loading and text shaping are external collaborators, per spec §1/§6).
package styledom

import "github.com/cogentlayout/corelayout/pkg/styles"

// NodeID identifies a StyledNode within its owning Dom. IDs are stable
// across frames when the producer can supply them (e.g. from a DOM), and
// fall back to position-based identity (§4.2) when absent.
type NodeID int64

// NoID marks an anonymous or unidentified node.
const NoID NodeID = -1

// Kind is the tagged-variant node kind (§3.1, §9 "polymorphism over node
// kinds → tagged variants").
type Kind uint8

const (
	KindElement Kind = iota
	KindText
	KindIFrame
	KindImage
	KindLineBreak
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindIFrame:
		return "iframe"
	case KindImage:
		return "image"
	case KindLineBreak:
		return "line-break"
	default:
		return "unknown"
	}
}

// IFrameCallback is the explicit function-object handle an iframe node
// carries (§9 "callbacks into user code → explicit function-object handles,
// invoked synchronously. Do not rely on dynamic binding or closures-with-
// captured-self; pass the needed state explicitly").
type IFrameCallback func(in IFrameInput) IFrameOutput

// IFrameInput is the state passed explicitly into a producer callback.
type IFrameInput struct {
	ScrollOffset      [2]float32
	VisibleSize       [2]float32
	VirtualSizeHint   [2]float32
}

// IFrameOutput is what a producer callback hands back.
type IFrameOutput struct {
	Child             *Node
	VirtualScrollSize [2]float32
	VirtualScrollOff  [2]float32
}

// ImageContent is the intrinsic content of a KindImage node: either an
// already-known size, or a resource reference to be resolved by
// internal/imageres.
type ImageContent struct {
	Width, Height float32 // 0,0 means "resolve from Src"
	Src           string
}

// Node is an input StyledNode: a DOM node with resolved style (§3.1).
type Node struct {
	ID       NodeID
	Kind     Kind
	Style    styles.Style
	Children []*Node

	// Intrinsic content, exactly one of which is meaningful per Kind.
	Text        string
	Image       ImageContent
	IFrameFunc  IFrameCallback
}

// Dom is a full styled document tree rooted at Root.
type Dom struct {
	Root *Node
}
