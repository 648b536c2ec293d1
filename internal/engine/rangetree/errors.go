package rangetree

import "errors"

// ErrInvariant is wrapped by every structural violation reported by Check.
var ErrInvariant = errors.New("rangetree: invariant violation")
