package domain

import (
	"fmt"

	"go.ngs.io/seawater/internal/interp"
)

// TSPoint is one vertical sample of a temperature/salinity profile.
type TSPoint struct {
	Z float64 `json:"z" yaml:"z"` // Depth in meters, positive down.
	T float64 `json:"t" yaml:"t"` // Temperature, °C.
	S float64 `json:"s" yaml:"s"` // Salinity, PSU.
}

// TSProfile is a vertical temperature/salinity profile ordered by strictly
// increasing depth. The integrators only read it.
type TSProfile []TSPoint

// Validate checks the invariants the integrators rely on: at least two
// points and strictly increasing depth.
func (p TSProfile) Validate() error {
	if len(p) < 2 {
		return fmt.Errorf("%w: got %d points", ErrProfileTooShort, len(p))
	}
	for i := 1; i < len(p); i++ {
		if p[i].Z == p[i-1].Z {
			return fmt.Errorf("%w: points %d and %d at z=%g", ErrDegenerateSegment, i-1, i, p[i].Z)
		}
		if !(p[i].Z > p[i-1].Z) {
			return fmt.Errorf("%w: z[%d]=%g follows z[%d]=%g", ErrProfileNotSorted, i, p[i].Z, i-1, p[i-1].Z)
		}
	}
	return nil
}

// MaxDepth returns the depth of the deepest point, or 0 for an empty profile.
func (p TSProfile) MaxDepth() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].Z
}

// TruncateAt returns a copy of the profile cut at depth. When depth falls
// inside a segment, an end point interpolated at depth is appended. A depth
// at or above the first point leaves only that point, which fails Validate.
func (p TSProfile) TruncateAt(depth float64) TSProfile {
	out := make(TSProfile, 0, len(p))
	for i, pt := range p {
		if pt.Z <= depth {
			out = append(out, pt)
			continue
		}
		if i > 0 && p[i-1].Z < depth {
			prev := p[i-1]
			out = append(out, TSPoint{
				Z: depth,
				T: interp.Lerp(prev.Z, prev.T, pt.Z, pt.T, depth),
				S: interp.Lerp(prev.Z, prev.S, pt.Z, pt.S, depth),
			})
		}
		break
	}
	return out
}
