package allowlist

import "errors"

var (
	// ErrProofInvalid indicates the recomputed root does not match the committed root.
	ErrProofInvalid = errors.New("allowlist: merkle proof invalid")

	// ErrInvalidNode indicates a proof node is not 32 bytes.
	ErrInvalidNode = errors.New("allowlist: proof node must be 32 bytes")

	// ErrInvalidRoot indicates the committed root is not 32 bytes.
	ErrInvalidRoot = errors.New("allowlist: root must be 32 bytes")

	// ErrEmptyIdentity indicates an empty identity string.
	ErrEmptyIdentity = errors.New("allowlist: identity is empty")

	// ErrNoIdentities indicates an attempt to build a tree with no leaves.
	ErrNoIdentities = errors.New("allowlist: no identities")

	// ErrDuplicateIdentity indicates the same identity appears twice in a tree.
	ErrDuplicateIdentity = errors.New("allowlist: duplicate identity")

	// ErrIdentityNotInTree indicates the identity has no leaf in the tree.
	ErrIdentityNotInTree = errors.New("allowlist: identity not in tree")
)
