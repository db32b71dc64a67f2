package reconcile

import (
	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/internal/xlog"
	"github.com/cogentlayout/corelayout/pkg/geom32"
	"github.com/cogentlayout/corelayout/pkg/styledom"
)

// Result is what one Reconcile pass produces (spec §4.2): the set of nodes
// needing a bottom-up intrinsic recompute, and the minimal set of layout
// roots for the subsequent top-down pass.
type Result struct {
	IntrinsicDirty []boxtree.Index
	LayoutRoots    []boxtree.Index
	AnyStructural  bool
}

// Reconciler diffs a new StyledDom against a cached LayoutTree.
type Reconciler struct{}

func New() *Reconciler { return &Reconciler{} }

// Reconcile walks dom against tree in parallel, mutating tree in place
// (rebuilding only the subtrees that changed structurally) and returning
// the dirty-node bookkeeping the rest of the pipeline needs.
//
// If tree has no root yet, this performs (and records as fully dirty) an
// initial build.
func (r *Reconciler) Reconcile(tree *boxtree.Tree, dom *styledom.Dom) (*Result, error) {
	res := &Result{}
	b := &boxtree.Builder{Tree: tree}

	if tree.Root == boxtree.Invalid {
		if dom == nil || dom.Root == nil {
			return res, nil
		}
		root := b.Build(dom)
		tree.Root = root
		stampHashes(tree, root, dom.Root)
		markSubtreeDirty(tree, root, boxtree.Structural)
		res.IntrinsicDirty = append(res.IntrinsicDirty, root)
		res.LayoutRoots = append(res.LayoutRoots, root)
		res.AnyStructural = true
		return res, nil
	}

	if dom == nil || dom.Root == nil {
		tree.FreeSubtree(tree.Root)
		tree.Root = boxtree.Invalid
		res.AnyStructural = true
		return res, nil
	}

	newRoot, _, _ := r.reconcileNode(tree, b, tree.Root, dom.Root, true, res)
	tree.Root = newRoot
	return res, nil
}

// reconcileNode implements spec §4.2's per-node rules:
//
//	subtree_hash match  -> clean subtree, skip
//	node_data_hash diff -> intrinsic_dirty + layout_root here, recurse
//	children differ     -> Structural, full rebuild of this subtree
func (r *Reconciler) reconcileNode(t *boxtree.Tree, b *boxtree.Builder, idx boxtree.Index, sn *styledom.Node, isRoot bool, res *Result) (newIdx boxtree.Index, subtreeHash uint64, changed bool) {
	n := t.Get(idx)
	ndh := NodeDataHash(sn)

	effChildren := effectiveChildren(t, idx)
	if !childShapeMatches(t, effChildren, sn.Children) {
		xlog.LayoutTrace("reconcile structural rebuild", "styledID", sn.ID)
		parent := n.Parent
		t.FreeSubtree(idx)
		newIdx = b.Build(&styledom.Dom{Root: sn})
		if parent != boxtree.Invalid {
			t.Get(newIdx).Parent = parent
			pc := t.Get(parent).Children
			for i, c := range pc {
				if c == idx {
					pc[i] = newIdx
				}
			}
		}
		stampHashes(t, newIdx, sn)
		markSubtreeDirty(t, newIdx, boxtree.Structural)
		res.AnyStructural = true
		res.IntrinsicDirty = append(res.IntrinsicDirty, newIdx)
		res.LayoutRoots = append(res.LayoutRoots, newIdx)
		return newIdx, recomputeStyledSubtreeHash(sn), true
	}

	childHashes := make([]uint64, len(effChildren))
	anyChildChanged := false
	for i, ci := range effChildren {
		_, ch, cchanged := r.reconcileNode(t, b, ci, sn.Children[i], false, res)
		childHashes[i] = ch
		anyChildChanged = anyChildChanged || cchanged
	}

	sh := SubtreeHash(ndh, childHashes)
	if sh == n.SubtreeHash && n.NodeDataHash == ndh && !anyChildChanged {
		return idx, sh, false
	}

	dataChanged := n.NodeDataHash != ndh
	n.NodeDataHash = ndh
	n.SubtreeHash = sh
	// Refresh mutable leaf content (style/text/image may have changed
	// without a structural diff).
	n.Style = sn.Style
	n.Text = sn.Text
	n.Image = sn.Image
	n.IFrameFunc = sn.IFrameFunc
	n.Box = boxtree.BoxProps{Margin: sn.Style.Margin, Border: sn.Style.Border, Padding: sn.Style.Padding, BoxSizing: sn.Style.BoxSizing}

	if dataChanged {
		n.Dirty = boxtree.IntrinsicOnly
		markAncestorsIntrinsicDirty(t, idx)
		res.IntrinsicDirty = append(res.IntrinsicDirty, idx)
		res.LayoutRoots = append(res.LayoutRoots, nearestLayoutRoot(t, idx))
	} else if anyChildChanged {
		// A descendant changed; this node's own data did not, but it must
		// still be revisited bottom-up (spec §4.2 dirty propagation).
		if n.Dirty == boxtree.Clean {
			n.Dirty = boxtree.IntrinsicOnly
		}
	}

	return idx, sh, dataChanged || anyChildChanged
}

// effectiveChildren returns, for idx, the document-order list of
// non-anonymous descendant indices reachable without crossing another
// non-anonymous node — i.e. it looks straight through one level of
// anonymous-box wrapping (spec §4.1.1 only ever wraps one level deep).
// Anonymous boxes "have a null style hash" (spec §4.1.1) so they are
// transparent to hashing and diffing; only their presence/absence, which is
// entirely determined by their non-anonymous contents, matters.
func effectiveChildren(t *boxtree.Tree, idx boxtree.Index) []boxtree.Index {
	n := t.Get(idx)
	var out []boxtree.Index
	for _, c := range n.Children {
		cn := t.Get(c)
		if cn.IsAnonymous() {
			out = append(out, cn.Children...)
		} else {
			out = append(out, c)
		}
	}
	return out
}

// childShapeMatches reports whether the cached effective children still
// correspond 1:1 (by StyledID, with position fallback when IDs are absent)
// to the new StyledNode's children (spec §4.2: "position-based fallback if
// ids are absent").
func childShapeMatches(t *boxtree.Tree, effChildren []boxtree.Index, styled []*styledom.Node) bool {
	if len(effChildren) != len(styled) {
		return false
	}
	for i, ci := range effChildren {
		cn := t.Get(ci)
		sid := styled[i].ID
		if cn.StyledID != styledom.NoID && sid != styledom.NoID {
			if cn.StyledID != sid {
				return false
			}
		}
		if cn.Kind != styled[i].Kind {
			return false
		}
	}
	return true
}

func markSubtreeDirty(t *boxtree.Tree, idx boxtree.Index, flag boxtree.DirtyFlag) {
	t.Walk(idx, func(i boxtree.Index, n *boxtree.LayoutNode) bool {
		n.Dirty = flag
		return true
	})
}

// markAncestorsIntrinsicDirty implements: "an intrinsic_dirty node also
// marks every ancestor as intrinsic_dirty (bottom-up)" (spec §4.2).
func markAncestorsIntrinsicDirty(t *boxtree.Tree, idx boxtree.Index) {
	p := t.Get(idx).Parent
	for p != boxtree.Invalid {
		pn := t.Get(p)
		if pn.Dirty == boxtree.Clean {
			pn.Dirty = boxtree.IntrinsicOnly
		}
		p = pn.Parent
	}
}

// nearestLayoutRoot finds "the nearest ancestor whose own layout can be
// recomputed without impacting earlier siblings" (spec §4.2/Glossary): for
// a BFC, a block-axis sibling boundary with no upstream float intrusion;
// elsewhere, the nearest formatting-context root.
func nearestLayoutRoot(t *boxtree.Tree, idx boxtree.Index) boxtree.Index {
	cur := idx
	for {
		n := t.Get(cur)
		if n.FormattingContext == boxtree.FCBlock && n.EstablishesNewBFC {
			return cur
		}
		if n.Parent == boxtree.Invalid {
			return cur
		}
		pn := t.Get(n.Parent)
		// Flex/Grid/Table: a size change in one item can force full
		// relayout of the container (spec §4.2's sibling-repositioning
		// caveat), so the nearest such container is itself the root.
		if pn.FormattingContext == boxtree.FCFlex || pn.FormattingContext == boxtree.FCGrid ||
			pn.FormattingContext == boxtree.FCTable || pn.FormattingContext == boxtree.FCTableRow {
			return n.Parent
		}
		cur = n.Parent
	}
}

// recomputeStyledSubtreeHash computes a styled-tree-only Merkle hash for a
// freshly rebuilt subtree, used solely to return a value the caller can
// compare against on the *next* reconcile pass.
func recomputeStyledSubtreeHash(sn *styledom.Node) uint64 {
	ndh := NodeDataHash(sn)
	hashes := make([]uint64, len(sn.Children))
	for i, c := range sn.Children {
		hashes[i] = recomputeStyledSubtreeHash(c)
	}
	return SubtreeHash(ndh, hashes)
}

// stampHashes records NodeDataHash and SubtreeHash on every non-anonymous
// node of a freshly built subtree, so the next pass can tell unchanged nodes
// from changed ones.
func stampHashes(t *boxtree.Tree, idx boxtree.Index, sn *styledom.Node) uint64 {
	eff := effectiveChildren(t, idx)
	hashes := make([]uint64, len(eff))
	for i, ci := range eff {
		hashes[i] = stampHashes(t, ci, sn.Children[i])
	}
	n := t.Get(idx)
	n.NodeDataHash = NodeDataHash(sn)
	n.SubtreeHash = SubtreeHash(n.NodeDataHash, hashes)
	return n.SubtreeHash
}

// RepositionSiblings implements spec §4.2's sibling-repositioning
// optimization: after dirtyIdx is relaid out, clean siblings that come after
// it on the main axis have their relative AND absolute positions shifted by
// the delta of its used main-axis size, without themselves being relaid
// out. This is only valid "inside a pure block stack" — a no-op for
// Flex/Grid/Table parents, since relaying out those containers already
// recomputes every child's position directly.
//
// absPos is the pipeline's LayoutCache.AbsolutePositions map; every shifted
// sibling's whole subtree is translated in it too, since their descendants'
// absolute positions were computed relative to the old (now stale) origin.
// absPos may be nil (e.g. from a test that only cares about RelPos).
func RepositionSiblings(t *boxtree.Tree, dirtyIdx boxtree.Index, deltaMain float32, mainAxis geom32.Dims, absPos map[boxtree.Index]geom32.Vector2) {
	if deltaMain == 0 {
		return
	}
	p := t.Get(dirtyIdx).Parent
	if p == boxtree.Invalid {
		return
	}
	pn := t.Get(p)
	if pn.FormattingContext != boxtree.FCBlock {
		return
	}
	found := false
	for _, c := range pn.Children {
		if c == dirtyIdx {
			found = true
			continue
		}
		if !found {
			continue
		}
		cn := t.Get(c)
		if !cn.HasRelPos {
			continue
		}
		v := cn.RelPos.Dim(mainAxis)
		cn.RelPos.SetDim(mainAxis, v+deltaMain)

		if absPos == nil {
			continue
		}
		var delta geom32.Vector2
		delta.SetDim(mainAxis, deltaMain)
		shiftSubtreeAbs(t, c, delta, absPos)
	}
}

// shiftSubtreeAbs translates idx and every descendant's already-recorded
// absolute position by delta, mirroring internal/oof's shiftSubtree for the
// same reason: a moved node's subtree was positioned relative to its old
// origin and must move with it.
func shiftSubtreeAbs(t *boxtree.Tree, idx boxtree.Index, delta geom32.Vector2, absPos map[boxtree.Index]geom32.Vector2) {
	absPos[idx] = absPos[idx].Add(delta)
	n := t.Get(idx)
	for _, c := range n.Children {
		shiftSubtreeAbs(t, c, delta, absPos)
	}
}
