package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrEmptyCatalog  = errors.New("catalog has no items")
	ErrInvalidItem   = errors.New("catalog item has empty id")
	ErrDuplicateItem = errors.New("duplicate catalog item id")
	ErrUnknownLeague = errors.New("unknown league")
)
