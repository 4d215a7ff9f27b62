package collection

import "errors"

// Every sentinel below aborts an entire entry point; no partial state
// survives a returned error.
var (
	// ErrPhaseInactive indicates an entry point was called outside its phase.
	ErrPhaseInactive = errors.New("collection: sale phase not active")

	// ErrUnauthorized indicates the caller lacks the required role,
	// ownership, or owner privilege, or the collection is paused.
	ErrUnauthorized = errors.New("collection: unauthorized")

	// ErrPayment indicates the attached value is insufficient.
	ErrPayment = errors.New("collection: insufficient payment")

	// ErrSupplyExceeded indicates the issuance would exceed the cap.
	ErrSupplyExceeded = errors.New("collection: supply cap exceeded")

	// ErrAllowList indicates a failed proof or an already-claimed identity.
	ErrAllowList = errors.New("collection: allow-list check failed")

	// ErrState indicates an invalid state transition, such as a second
	// reveal or duplicate unit ids in crafting.
	ErrState = errors.New("collection: invalid state transition")

	// ErrTransfer indicates a rejected transfer, such as moving a
	// soul-bound unit.
	ErrTransfer = errors.New("collection: transfer rejected")

	// ErrTreasury indicates the value movement during withdrawal failed.
	ErrTreasury = errors.New("collection: treasury transfer failed")

	// ErrUnknownUnit indicates a lookup of a unit id with no live unit.
	ErrUnknownUnit = errors.New("collection: unknown unit")

	// ErrNilParam indicates a required constructor parameter is missing.
	ErrNilParam = errors.New("collection: required parameter is nil")

	// ErrNoSnapshot indicates the state store holds no saved snapshot.
	ErrNoSnapshot = errors.New("collection: no saved snapshot")
)
