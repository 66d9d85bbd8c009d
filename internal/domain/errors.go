package domain

import "errors"

// Business-rule rejections are sentinel errors so callers can tell them
// apart with errors.Is instead of collapsing everything into one failure.
var (
	ErrItemNotFound           = errors.New("item not found")
	ErrInvalidAmount          = errors.New("invalid bid amount")
	ErrBelowBasePrice         = errors.New("bid amount must be greater than base price")
	ErrBelowCurrentHighest    = errors.New("bid amount must be greater than current highest bid")
	ErrAuctionClosed          = errors.New("auction for this item has ended")
	ErrAuctionAlreadyClosed   = errors.New("auction is already closed")
	ErrAuctionStillOpen       = errors.New("auction is still open")
	ErrNotAuthorized          = errors.New("not authorized to stop this auction")
	ErrInvalidAction          = errors.New("invalid stop action")
	ErrInvalidDeadline        = errors.New("deadline must be in the future")
	ErrInvalidStateTransition = errors.New("invalid auction state transition")
)
