// Package royalty is the royalty-registry bookkeeping for a collection: a
// fixed basis-point share paid to one beneficiary. The collection core
// configures a schedule once at initialization and exposes it through the
// capability registry; it implements no logic on top.
package royalty

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/relicforge/librelic-go/capability"
	"github.com/relicforge/librelic-go/ledger"
)

// MaxBps is the basis-point denominator: 10000 = 100%.
const MaxBps = 10000

// Capability is the discovery ID advertised by a royalty schedule.
var Capability = capability.Derive("relic.royalty")

var (
	// ErrInvalidBps indicates a share above 100%.
	ErrInvalidBps = errors.New("royalty: basis points exceed 10000")

	// ErrEmptyBeneficiary indicates a missing beneficiary identity.
	ErrEmptyBeneficiary = errors.New("royalty: beneficiary is empty")
)

// Schedule is an immutable royalty configuration.
type Schedule struct {
	beneficiary ledger.Identity
	bps         uint16
}

// NewSchedule creates a schedule paying bps basis points of every sale to
// beneficiary.
func NewSchedule(beneficiary ledger.Identity, bps uint16) (*Schedule, error) {
	if !beneficiary.Valid() {
		return nil, ErrEmptyBeneficiary
	}
	if bps > MaxBps {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBps, bps)
	}
	return &Schedule{beneficiary: beneficiary, bps: bps}, nil
}

// Beneficiary returns the identity paid on every sale.
func (s *Schedule) Beneficiary() ledger.Identity { return s.beneficiary }

// Bps returns the basis-point share.
func (s *Schedule) Bps() uint16 { return s.bps }

// Quote returns the beneficiary and the royalty owed on a sale price.
// A nil price quotes zero.
func (s *Schedule) Quote(salePrice *uint256.Int) (ledger.Identity, *uint256.Int) {
	amount := new(uint256.Int)
	if salePrice == nil || salePrice.IsZero() || s.bps == 0 {
		return s.beneficiary, amount
	}

	bps := uint256.NewInt(uint64(s.bps))
	denom := uint256.NewInt(MaxBps)
	if _, overflow := amount.MulOverflow(salePrice, bps); overflow {
		// Price too large to scale first; divide first and accept the
		// sub-basis-point truncation.
		amount.Div(salePrice, denom)
		amount.Mul(amount, bps)
		return s.beneficiary, amount
	}
	amount.Div(amount, denom)
	return s.beneficiary, amount
}

// Capabilities implements capability.Module.
func (s *Schedule) Capabilities() []capability.ID {
	return []capability.ID{Capability}
}
