// Package allowlist verifies membership of identities in a Merkle-committed
// allow-list. Leaves commit to the identity's address value alone, so a proof
// authenticates membership, never a quantity. Sibling pairs are hashed in
// canonical byte order, which means callers do not track left/right positions.
package allowlist

import (
	"bytes"
	"fmt"
	"sort"

	"golang.org/x/crypto/sha3"
)

// HashSize is the size of every leaf, node, and root.
const HashSize = 32

// keccak256 returns the legacy Keccak-256 digest of the concatenated inputs.
func keccak256(chunks ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	return h.Sum(nil)
}

// HashLeaf computes the leaf hash for an identity address.
// The leaf binds the address value only.
func HashLeaf(identity string) []byte {
	return keccak256([]byte(identity))
}

// hashPair combines two nodes in canonical (sorted) byte order.
func hashPair(a, b []byte) []byte {
	if bytes.Compare(a, b) > 0 {
		a, b = b, a
	}
	return keccak256(a, b)
}

// ComputeRoot recomputes the root from a leaf and its proof nodes, bottom-up.
func ComputeRoot(leaf []byte, nodes [][]byte) ([]byte, error) {
	if len(leaf) != HashSize {
		return nil, fmt.Errorf("%w: leaf is %d bytes", ErrInvalidNode, len(leaf))
	}
	hash := make([]byte, HashSize)
	copy(hash, leaf)
	for _, node := range nodes {
		if len(node) != HashSize {
			return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidNode, len(node))
		}
		hash = hashPair(hash, node)
	}
	return hash, nil
}

// VerifyProof checks that identity is a member of the allow-list committed to
// by root. Malformed input returns an error; a well-formed proof that does not
// reach root returns (false, nil).
func VerifyProof(identity string, nodes [][]byte, root []byte) (bool, error) {
	if identity == "" {
		return false, ErrEmptyIdentity
	}
	if len(root) != HashSize {
		return false, fmt.Errorf("%w: got %d bytes", ErrInvalidRoot, len(root))
	}
	computed, err := ComputeRoot(HashLeaf(identity), nodes)
	if err != nil {
		return false, err
	}
	return bytes.Equal(computed, root), nil
}

// Tree is a full sorted-pair Merkle tree over identity leaves. It exists so
// the operator committing a root can also hand out proofs; verification needs
// only VerifyProof.
type Tree struct {
	levels [][][]byte     // levels[0] = leaves, last level = root
	index  map[string]int // identity -> leaf position
}

// BuildTree constructs a tree from the given identities. Leaves are sorted by
// hash so the same set always commits to the same root regardless of input
// order. An odd node at any level is promoted unchanged.
func BuildTree(identities []string) (*Tree, error) {
	if len(identities) == 0 {
		return nil, ErrNoIdentities
	}

	type leaf struct {
		id   string
		hash []byte
	}
	leaves := make([]leaf, 0, len(identities))
	seen := make(map[string]bool, len(identities))
	for _, id := range identities {
		if id == "" {
			return nil, ErrEmptyIdentity
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentity, id)
		}
		seen[id] = true
		leaves = append(leaves, leaf{id: id, hash: HashLeaf(id)})
	}
	sort.Slice(leaves, func(i, j int) bool {
		return bytes.Compare(leaves[i].hash, leaves[j].hash) < 0
	})

	t := &Tree{index: make(map[string]int, len(leaves))}
	level := make([][]byte, len(leaves))
	for i, l := range leaves {
		level[i] = l.hash
		t.index[l.id] = i
	}
	t.levels = append(t.levels, level)

	for len(level) > 1 {
		next := make([][]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				// Odd node, promote unchanged.
				next = append(next, level[i])
				continue
			}
			next = append(next, hashPair(level[i], level[i+1]))
		}
		t.levels = append(t.levels, next)
		level = next
	}

	return t, nil
}

// Root returns the committed root of the tree.
func (t *Tree) Root() []byte {
	top := t.levels[len(t.levels)-1]
	root := make([]byte, HashSize)
	copy(root, top[0])
	return root
}

// Len returns the number of leaves.
func (t *Tree) Len() int { return len(t.levels[0]) }

// ProofFor returns the proof nodes for an identity, bottom-up.
func (t *Tree) ProofFor(identity string) ([][]byte, error) {
	pos, ok := t.index[identity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIdentityNotInTree, identity)
	}

	var nodes [][]byte
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := pos ^ 1
		if sibling < len(level) {
			node := make([]byte, HashSize)
			copy(node, level[sibling])
			nodes = append(nodes, node)
		}
		pos /= 2
	}
	return nodes, nil
}
