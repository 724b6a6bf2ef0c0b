package domain

import "math"

// VerticalSoundPath returns the vertical distance in meters an acoustic
// signal travels downwards from the first profile point in tof seconds,
// integrating dh/dt = c(t, p, s) over steps equal time increments.
//
// Temperature, salinity and pressure are interpolated linearly against
// depth inside each profile segment. Segment pressure bounds are derived
// from the density of the first point at atmospheric pressure; each new
// bound is offset by the pressure of the previous one, so pressure
// accumulates from segment to segment.
//
// The first point's sound speed times tof must not exceed the deepest
// profile point. If the integration still runs past it, the call fails with
// ErrProfileExhausted. Precondition failures are returned as
// *PreconditionError.
func VerticalSoundPath(tof float64, steps int, g float64, profile TSProfile) (float64, error) {
	const op = "VerticalSoundPath"

	if err := profile.Validate(); err != nil {
		return 0, profileError(op, err)
	}
	if steps <= 0 {
		return 0, precondition(op, ErrInvalidStepCount, "steps=%d", steps)
	}
	if !(g > 0) {
		return 0, precondition(op, ErrInvalidGravity, "g=%g", g)
	}
	if !(tof >= 0) {
		return 0, precondition(op, ErrInvalidTimeOfFlight, "tof=%g", tof)
	}

	first, second := profile[0], profile[1]
	rho0 := Density(first.T, AtmPressureMbar, first.S)
	p1 := PressureFromDepth(first.Z, AtmPressureMbar, rho0, g)
	v := SoundSpeed(first.T, p1, first.S)
	if v*tof > profile.MaxDepth() {
		return 0, precondition(op, ErrTimeOfFlightOutOfRange,
			"%g m/s over %g s exceeds max depth %g m", v, tof, profile.MaxDepth())
	}

	p2 := PressureFromDepth(second.Z, AtmPressureMbar, rho0, g)
	cur, err := newSegmentCursor(profile, first.Z, second.Z, p1, p2)
	if err != nil {
		return 0, precondition(op, ErrDegenerateSegment, "%v", err)
	}

	dt := tof / float64(steps)
	h := 0.0
	for i := 0; i < steps; i++ {
		h += dt * v
		for h > cur.upper() {
			if cur.last() {
				return 0, precondition(op, ErrProfileExhausted, "h=%g m after %d of %d steps", h, i+1, steps)
			}
			next := cur.next()
			pb := PressureFromDepth(next.Z, AtmPressureMbar+cur.p2, rho0, g)
			if err := cur.advance(next.Z, pb); err != nil {
				return 0, precondition(op, ErrDegenerateSegment, "%v", err)
			}
		}
		t, s, p := cur.at(h)
		v = SoundSpeed(t, p, s)
	}

	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, precondition(op, ErrNumericDegeneracy, "h=%g", h)
	}
	return h, nil
}
