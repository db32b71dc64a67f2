package boxtree

import (
	"github.com/cogentlayout/corelayout/pkg/styledom"
	"github.com/cogentlayout/corelayout/pkg/styles"
)

// Builder turns a StyledDom into a LayoutTree, inserting anonymous boxes
// where CSS requires (spec §4.1.1).
type Builder struct {
	Tree *Tree
}

// NewBuilder returns a Builder over a fresh Tree.
func NewBuilder() *Builder {
	return &Builder{Tree: NewTree()}
}

// Build walks dom and produces the root Index of the resulting LayoutTree.
func (b *Builder) Build(dom *styledom.Dom) Index {
	if dom == nil || dom.Root == nil {
		return Invalid
	}
	root := b.build(dom.Root, true)
	b.Tree.Root = root
	return root
}

// isInlineLevel classifies a child as inline-level for the block/inline
// fixup rule (spec §4.1.1 first bullet).
func isInlineLevel(n *styledom.Node) bool {
	switch n.Kind {
	case styledom.KindText, styledom.KindLineBreak:
		return true
	case styledom.KindImage:
		return n.Style.Display != styles.DisplayBlock
	}
	switch n.Style.Display {
	case styles.DisplayInline, styles.DisplayInlineBlock:
		return true
	}
	return false
}

func isTableCell(n *styledom.Node) bool {
	return n.Style.Display == styles.DisplayTableCell
}

func formattingContextFor(n *styledom.Node) FormattingContext {
	switch n.Style.Display {
	case styles.DisplayInline, styles.DisplayInlineBlock:
		return FCInline
	case styles.DisplayFlex:
		return FCFlex
	case styles.DisplayGrid:
		return FCGrid
	case styles.DisplayTable:
		return FCTable
	case styles.DisplayTableRowGroup:
		return FCTableRowGroup
	case styles.DisplayTableRow:
		return FCTableRow
	case styles.DisplayTableCell:
		return FCTableCell
	default:
		return FCBlock
	}
}

// establishesNewBFC reports whether a node starts a new block formatting
// context: true for the tree root and for a node whose overflow is not
// visible on either axis. Style has no float property, so floats play no
// part in the decision.
func establishesNewBFC(n *styledom.Node, isRoot bool) bool {
	if isRoot {
		return true
	}
	if n.Style.Overflow.X != styles.OverflowVisible || n.Style.Overflow.Y != styles.OverflowVisible {
		return true
	}
	return false
}

func boxPropsFromStyle(s styles.Style) BoxProps {
	return BoxProps{Margin: s.Margin, Border: s.Border, Padding: s.Padding, BoxSizing: s.BoxSizing}
}

func defaultAnonymousStyle(fc FormattingContext) styles.Style {
	var s styles.Style
	switch fc {
	case FCBlock:
		s.Display = styles.DisplayBlock
	case FCTableRow:
		s.Display = styles.DisplayTableRow
	case FCTableCell:
		s.Display = styles.DisplayTableCell
	}
	return s
}

func (b *Builder) newAnonymous(fc FormattingContext) Index {
	s := defaultAnonymousStyle(fc)
	return b.Tree.Alloc(LayoutNode{
		StyledID:          styledom.NoID,
		FormattingContext: fc,
		Style:             s,
		Box:               boxPropsFromStyle(s),
		Parent:            Invalid,
	})
}

func (b *Builder) newFromStyled(n *styledom.Node, isRoot bool) Index {
	fc := formattingContextFor(n)
	return b.Tree.Alloc(LayoutNode{
		StyledID:          n.ID,
		FormattingContext: fc,
		EstablishesNewBFC: fc == FCBlock && establishesNewBFC(n, isRoot),
		Style:             n.Style,
		Box:               boxPropsFromStyle(n.Style),
		Kind:              n.Kind,
		Text:              n.Text,
		Image:             n.Image,
		IFrameFunc:        n.IFrameFunc,
		Parent:            Invalid,
	})
}

func (b *Builder) attach(parent, child Index) {
	b.Tree.Get(child).Parent = parent
	pn := b.Tree.Get(parent)
	pn.Children = append(pn.Children, child)
}

// build is the real recursive entry point; isRoot is only true for the
// document root itself (passed explicitly by Build).
func (b *Builder) build(n *styledom.Node, isRoot bool) Index {
	idx := b.newFromStyled(n, isRoot)
	if len(n.Children) == 0 {
		return idx
	}
	children := b.buildChildren(n, idx)
	tn := b.Tree.Get(idx)
	tn.Children = children
	for _, c := range children {
		b.Tree.Get(c).Parent = idx
	}
	return idx
}

// buildChildren applies the §4.1.1 anonymous-box fixup rules for the given
// parent's children and returns the resulting list of child Indexes
// (each possibly an anonymous wrapper box).
func (b *Builder) buildChildren(parent *styledom.Node, parentIdx Index) []Index {
	pd := parent.Style.Display
	switch pd {
	case styles.DisplayFlex, styles.DisplayGrid, styles.DisplayInline, styles.DisplayInlineBlock:
		// "No anonymous boxes are generated under Flex/Grid/Inline parents."
		out := make([]Index, 0, len(parent.Children))
		for _, c := range parent.Children {
			out = append(out, b.build(c, false))
		}
		return out
	case styles.DisplayTable, styles.DisplayTableRowGroup:
		return b.buildTableChildren(parent.Children)
	case styles.DisplayTableRow:
		return b.buildRowChildren(parent.Children)
	default:
		return b.buildBlockChildren(parent.Children)
	}
}

// buildBlockChildren wraps consecutive runs of inline-level children in an
// anonymous block box (spec §4.1.1 bullet 1).
func (b *Builder) buildBlockChildren(children []*styledom.Node) []Index {
	out := make([]Index, 0, len(children))
	var runStart int = -1
	flushRun := func(end int) {
		if runStart < 0 {
			return
		}
		anon := b.newAnonymous(FCBlock)
		for _, c := range children[runStart:end] {
			ci := b.build(c, false)
			b.attach(anon, ci)
		}
		out = append(out, anon)
		runStart = -1
	}
	for i, c := range children {
		if isInlineLevel(c) {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flushRun(i)
		out = append(out, b.build(c, false))
	}
	flushRun(len(children))
	return out
}

// buildTableChildren implements: "a display:table that has direct
// display:table-cell children must have an anonymous table-row inserted
// between them" (and the row-group analogue, spec §4.1.1 bullet 2).
func (b *Builder) buildTableChildren(children []*styledom.Node) []Index {
	out := make([]Index, 0, len(children))
	var runStart int = -1
	flushRun := func(end int) {
		if runStart < 0 {
			return
		}
		anon := b.newAnonymous(FCTableRow)
		for _, c := range children[runStart:end] {
			ci := b.build(c, false)
			b.attach(anon, ci)
		}
		out = append(out, anon)
		runStart = -1
	}
	for i, c := range children {
		if isTableCell(c) {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flushRun(i)
		out = append(out, b.build(c, false))
	}
	flushRun(len(children))
	return out
}

// buildRowChildren implements: "a display:table-row that has direct
// children not of type table-cell wraps them in anonymous table-cell"
// (spec §4.1.1 bullet 2).
func (b *Builder) buildRowChildren(children []*styledom.Node) []Index {
	out := make([]Index, 0, len(children))
	for _, c := range children {
		if isTableCell(c) {
			out = append(out, b.build(c, false))
			continue
		}
		anon := b.newAnonymous(FCTableCell)
		ci := b.build(c, false)
		b.attach(anon, ci)
		out = append(out, anon)
	}
	return out
}
