package ledger

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
)

// Identity is the address form of a participant: the base58check P2PKH-style
// address string derived from a secp256k1 public key. The zero value is not a
// valid identity.
type Identity string

// Valid reports whether the identity is non-empty.
func (id Identity) Valid() bool { return id != "" }

// IdentityFromPublicKey derives the address identity for a compressed
// public key.
func IdentityFromPublicKey(pub *ec.PublicKey) (Identity, error) {
	if pub == nil {
		return "", fmt.Errorf("%w: nil", ErrInvalidPublicKey)
	}
	addr, err := script.NewAddressFromPublicKey(pub, true)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	return Identity(addr.AddressString), nil
}

// NewIdentity generates a fresh random identity. Intended for tests and
// tooling; production callers derive identities from existing keys.
func NewIdentity() (Identity, error) {
	priv, err := ec.NewPrivateKey()
	if err != nil {
		return "", fmt.Errorf("ledger: generate key: %w", err)
	}
	return IdentityFromPublicKey(priv.PubKey())
}
