package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/internal/reconcile"
	"github.com/cogentlayout/corelayout/pkg/styledom"
	"github.com/cogentlayout/corelayout/pkg/styles"
)

func block(id styledom.NodeID, children ...*styledom.Node) *styledom.Node {
	return &styledom.Node{ID: id, Kind: styledom.KindElement, Style: styles.Style{Display: styles.DisplayBlock}, Children: children}
}

func text(id styledom.NodeID, s string) *styledom.Node {
	return &styledom.Node{ID: id, Kind: styledom.KindText, Text: s}
}

// TestReconcile_SingleTextMutationOnlyDirtiesItsOwnAncestorChain is spec §8
// scenario 6: editing one text node's content in a pure block stack must
// not force a structural rebuild, and must leave sibling subtrees clean.
func TestReconcile_SingleTextMutationOnlyDirtiesItsOwnAncestorChain(t *testing.T) {
	mkDom := func(msg string) *styledom.Dom {
		return &styledom.Dom{Root: block(1,
			block(2, text(3, msg)),
			block(4, text(5, "unchanged sibling")),
		)}
	}

	tr := boxtree.NewTree()
	r := reconcile.New()

	res1, err := r.Reconcile(tr, mkDom("hello"))
	require.NoError(t, err)
	assert.True(t, res1.AnyStructural, "first build is always structural")

	// The layout pass that follows a build leaves every node Clean; stand in
	// for it so the second reconcile starts from a laid-out tree.
	tr.Walk(tr.Root, func(_ boxtree.Index, n *boxtree.LayoutNode) bool {
		n.Dirty = boxtree.Clean
		return true
	})

	// Snapshot the sibling subtree's root index so we can assert it is
	// untouched (same index, not freed+rebuilt) after the second reconcile.
	root := tr.Get(tr.Root)
	siblingBlockIdx := root.Children[1]

	res2, err := r.Reconcile(tr, mkDom("hello, world"))
	require.NoError(t, err)
	assert.False(t, res2.AnyStructural, "a text-content-only change is not structural")
	require.NotEmpty(t, res2.IntrinsicDirty)

	// The sibling block must still be the same arena slot, clean.
	siblingBlock := tr.Get(siblingBlockIdx)
	assert.Equal(t, boxtree.Clean, siblingBlock.Dirty, "unrelated sibling subtree stays clean")
}

func TestReconcile_StructuralChangeRebuildsSubtree(t *testing.T) {
	tr := boxtree.NewTree()
	r := reconcile.New()

	_, err := r.Reconcile(tr, &styledom.Dom{Root: block(1, text(2, "a"))})
	require.NoError(t, err)

	res, err := r.Reconcile(tr, &styledom.Dom{Root: block(1, text(2, "a"), text(3, "b"))})
	require.NoError(t, err)
	assert.True(t, res.AnyStructural, "a changed child count is a structural diff")
}

func TestReconcile_NilDomFreesTree(t *testing.T) {
	tr := boxtree.NewTree()
	r := reconcile.New()

	_, err := r.Reconcile(tr, &styledom.Dom{Root: block(1, text(2, "a"))})
	require.NoError(t, err)
	require.NotEqual(t, boxtree.Invalid, tr.Root)

	_, err = r.Reconcile(tr, nil)
	require.NoError(t, err)
	assert.Equal(t, boxtree.Invalid, tr.Root)
}

func TestNodeDataHash_StableAcrossRepeatedCalls(t *testing.T) {
	n := text(1, "hello")
	assert.Equal(t, reconcile.NodeDataHash(n), reconcile.NodeDataHash(n))
}

func TestNodeDataHash_DiffersOnTextChange(t *testing.T) {
	a := text(1, "hello")
	b := text(1, "hello!")
	assert.NotEqual(t, reconcile.NodeDataHash(a), reconcile.NodeDataHash(b))
}
