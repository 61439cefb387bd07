package registry

import "errors"

// ErrNotFound is returned by Get/Delete when a token is unknown or has
// already expired.
var ErrNotFound = errors.New("registry: token not found")

// ErrCollision is returned by Register if it could not mint a token that
// didn't already exist after a bounded number of attempts. At the spec's
// token lengths this should never happen in practice.
var ErrCollision = errors.New("registry: token generation collided repeatedly")
