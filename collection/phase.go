package collection

import "fmt"

// Phase is the sale-availability mode of the collection.
type Phase uint8

const (
	// PhaseClosed disables both paid mint paths.
	PhaseClosed Phase = iota
	// PhasePreSale enables allow-listed minting only.
	PhasePreSale
	// PhasePublicSale enables open minting only.
	PhasePublicSale
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseClosed:
		return "closed"
	case PhasePreSale:
		return "presale"
	case PhasePublicSale:
		return "public"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// ParsePhase parses a phase name.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "closed":
		return PhaseClosed, nil
	case "presale":
		return PhasePreSale, nil
	case "public":
		return PhasePublicSale, nil
	default:
		return PhaseClosed, fmt.Errorf("%w: unknown phase %q", ErrState, s)
	}
}
