// ABOUTME: Geodesic solver errors
// ABOUTME: Deterministic failures surfaced to callers, never retried

package geodesy

import "errors"

// ErrNonConvergent is returned when Vincenty's iteration does not settle
// within the iteration cap, typically for near-antipodal points.
var ErrNonConvergent = errors.New("geodesic solution did not converge")

// ErrCoincidentPoints is returned when both points are the same and a
// bearing was asked for. The distance is zero.
var ErrCoincidentPoints = errors.New("coincident points")
