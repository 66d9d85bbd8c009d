package domain

// AuctionState is the per-item lifecycle state. Open items accept bids;
// the three remaining states are terminal.
type AuctionState int

const (
	AuctionOpen AuctionState = iota
	AuctionClosedSold
	AuctionClosedUnsold
	AuctionDeleted
)

func (s AuctionState) String() string {
	switch s {
	case AuctionOpen:
		return "open"
	case AuctionClosedSold:
		return "closed_sold"
	case AuctionClosedUnsold:
		return "closed_unsold"
	case AuctionDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is allowed from s.
func (s AuctionState) Terminal() bool {
	return s != AuctionOpen
}

// CanTransitionTo encodes the full transition table: an open auction may
// close sold, close unsold, or be deleted; terminal states go nowhere.
func (s AuctionState) CanTransitionTo(to AuctionState) bool {
	if s != AuctionOpen {
		return false
	}
	switch to {
	case AuctionClosedSold, AuctionClosedUnsold, AuctionDeleted:
		return true
	default:
		return false
	}
}

// Transition validates and returns the new state. The state machine trusts
// its caller about authorization; ownership checks live in the engine.
func (s AuctionState) Transition(to AuctionState) (AuctionState, error) {
	if !s.CanTransitionTo(to) {
		return s, ErrInvalidStateTransition
	}
	return to, nil
}
