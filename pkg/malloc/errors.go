package malloc

import "errors"

// ErrOSFailure indicates the OS facade could not satisfy a break-advance or
// mapping request. Per spec, this is fatal: it never reaches a public
// Malloc/Calloc/Realloc return and is instead routed through OnFatal.
var ErrOSFailure = errors.New("malloc: os facade failure")
