package config

import "errors"

// Sentinel errors returned by Load/Validate (spec.md §7 "Error handling
// design"), matching internal/tables's IO_MISSING/CONFIG_INVALID pair.
var (
	ErrIOMissing     = errors.New("IO_MISSING")
	ErrConfigInvalid = errors.New("CONFIG_INVALID")
)
