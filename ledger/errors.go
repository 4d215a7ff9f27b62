package ledger

import "errors"

var (
	// ErrUnitNotFound indicates no unit exists with the given id.
	ErrUnitNotFound = errors.New("ledger: unit not found")

	// ErrDuplicateUnit indicates a unit with this id already exists.
	ErrDuplicateUnit = errors.New("ledger: duplicate unit id")

	// ErrNotOwner indicates the from identity does not own the unit.
	ErrNotOwner = errors.New("ledger: identity is not the unit owner")

	// ErrNotAuthorized indicates the caller is neither owner nor approved.
	ErrNotAuthorized = errors.New("ledger: caller not authorized for unit")

	// ErrEmptyIdentity indicates a required identity is empty.
	ErrEmptyIdentity = errors.New("ledger: identity is empty")

	// ErrInvalidPublicKey indicates a nil or malformed public key.
	ErrInvalidPublicKey = errors.New("ledger: invalid public key")
)
