package standings

import "errors"

// Sentinel kinds for standings errors.
var (
	ErrUnknownItem          = errors.New("item not in catalog")
	ErrIncompleteAssignment = errors.New("not every rank is filled")
	ErrRankOutOfRange       = errors.New("rank out of range")
	ErrRankOccupied         = errors.New("rank already occupied")
	ErrInvariant            = errors.New("standings invariant violated")
)
