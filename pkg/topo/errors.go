package topo

import "errors"

// ErrFeedFailure wraps an application-level error message delivered by the
// topology feed itself, as opposed to a socket failure.
var ErrFeedFailure = errors.New("topology feed reported error")
