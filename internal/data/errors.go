package data

import "errors"

// Error classes shared by the catalog, order and shop packages.
// Callers classify with errors.Is; messages carry the detail.
var (
	ErrValidation    = errors.New("invalid input")
	ErrPermission    = errors.New("permission denied")
	ErrAffordability = errors.New("insufficient budget")
	ErrNotFound      = errors.New("not found")
	ErrPersistence   = errors.New("persistence failure")
)
