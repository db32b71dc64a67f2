// Package reconcile implements the incremental cache & reconciliation pass
// (spec §4.2): content/subtree hashing, dirty propagation, and the
// minimal-work relayout bookkeeping (layout roots, sibling repositioning).
package reconcile

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/cogentlayout/corelayout/pkg/styledom"
)

// NodeDataHash computes node_data_hash(n): a hash of style + intrinsic
// content only, excluding children (spec §4.2, §3.2).
//
// Hashing is delegated to github.com/cespare/xxhash/v2 — already an
// indirect dependency of pack member rupor-github-fb2cng — rather than a
// hand-rolled FNV loop, per SPEC_FULL.md's §3 note.
func NodeDataHash(n *styledom.Node) uint64 {
	h := xxhash.New()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(n.Kind))
	h.Write(buf[:])

	writeStyle(h, n)

	switch n.Kind {
	case styledom.KindText:
		h.Write([]byte(n.Text))
	case styledom.KindImage:
		h.Write([]byte(n.Image.Src))
		binary.LittleEndian.PutUint64(buf[:], uint64(float32bits(n.Image.Width)))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(float32bits(n.Image.Height)))
		h.Write(buf[:])
	case styledom.KindIFrame:
		// The callback identity itself is part of node data: a node whose
		// producer function changed must be treated as changed content,
		// even if nothing else about it did.
		binary.LittleEndian.PutUint64(buf[:], funcIdentity(n.IFrameFunc))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// SubtreeHash computes subtree_hash(n) = H(node_data_hash, child hashes...)
// per spec §3.2's invariant. childHashes must be in child order.
func SubtreeHash(nodeDataHash uint64, childHashes []uint64) uint64 {
	h := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], nodeDataHash)
	h.Write(buf[:])
	for _, c := range childHashes {
		binary.LittleEndian.PutUint64(buf[:], c)
		h.Write(buf[:])
	}
	return h.Sum64()
}

func float32bits(f float32) uint32 {
	return mathFloat32bits(f)
}
