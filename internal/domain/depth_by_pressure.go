package domain

import "math"

// DepthByPressure returns the depth in meters at which pressure reaches pm
// (mBar) below a surface at pressure p0 (mBar), integrating the in situ
// density of the TS profile over pressure:
//
//	h = ∫ dp / (ρ(t, p, s)·g)   from p0 to pm
//
// The integral is evaluated as a Riemann sum over steps equal pressure
// increments, sampling the density at the end of each increment. Profile
// point depths are converted to segment pressure bounds using the density
// of the first point at p0; temperature and salinity are interpolated
// linearly against pressure inside each segment. A single increment may
// cross several segments.
//
// pm must lie between the pressures of the first and last profile points.
// Precondition failures are returned as *PreconditionError.
func DepthByPressure(pm, p0, g float64, profile TSProfile, steps int) (float64, error) {
	const op = "DepthByPressure"

	if steps <= 0 {
		return 0, precondition(op, ErrInvalidStepCount, "steps=%d", steps)
	}
	if err := profile.Validate(); err != nil {
		return 0, profileError(op, err)
	}
	if !(g > 0) {
		return 0, precondition(op, ErrInvalidGravity, "g=%g", g)
	}

	first := profile[0]
	rho0 := Density(first.T, p0, first.S)
	p1 := PressureFromDepth(first.Z, p0, rho0, g)
	pe := PressureFromDepth(profile.MaxDepth(), p0, rho0, g)
	if !(pm >= p1 && pm <= pe) {
		return 0, precondition(op, ErrPressureOutOfRange, "pm=%g outside [%g, %g]", pm, p1, pe)
	}

	p2 := PressureFromDepth(profile[1].Z, p0, rho0, g)
	cur, err := newSegmentCursor(profile, p1, p2, p1, p2)
	if err != nil {
		return 0, precondition(op, ErrDegenerateSegment, "%v", err)
	}

	dp := (pm - p0) / float64(steps)
	h := 0.0
	for i := 1; i <= steps; i++ {
		p := p0 + float64(i)*dp
		for p > cur.upper() && !cur.last() {
			pb := PressureFromDepth(cur.next().Z, p0, rho0, g)
			if err := cur.advance(pb, pb); err != nil {
				return 0, precondition(op, ErrDegenerateSegment, "%v", err)
			}
		}
		t, s, _ := cur.at(p)
		h += 1.0 / Density(t, p, s)
	}

	depth := h * 100.0 * dp / g
	if math.IsNaN(depth) || math.IsInf(depth, 0) {
		return 0, precondition(op, ErrNumericDegeneracy, "depth=%g", depth)
	}
	return depth, nil
}

// profileError wraps a TSProfile.Validate failure; the profile sentinel
// stays reachable through errors.Is.
func profileError(op string, err error) error {
	return &PreconditionError{Op: op, Err: err}
}
