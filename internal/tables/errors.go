package tables

import "errors"

// Startup-fatal error kinds (spec.md §7). These bubble to the CLI and are
// never recovered from inside the simulator/optimizer core.
var (
	ErrIOMissing     = errors.New("IO_MISSING")
	ErrConfigInvalid = errors.New("CONFIG_INVALID")
)
