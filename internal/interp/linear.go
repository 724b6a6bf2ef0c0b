package interp

import (
	"errors"
	"fmt"
)

// ErrDegenerateSegment is returned when both segment end points share the
// same abscissa.
var ErrDegenerateSegment = errors.New("interp: segment end points share the same abscissa")

// Lerp interpolates the value at x on the line through (x1, y1) and (x2, y2).
//
//	y = y1 + (x - x1)(y2 - y1)/(x2 - x1)
//
// x1 == x2 yields ±Inf or NaN; callers that cannot guarantee distinct end
// points should go through NewSegment.
func Lerp(x1, y1, x2, y2, x float64) float64 {
	return y1 + (x-x1)*(y2-y1)/(x2-x1)
}

// Segment is a validated linear segment between two abscissae. It also
// allows extrapolation beyond its end points.
type Segment struct {
	X1, X2 float64
}

// NewSegment validates the abscissae of a segment.
func NewSegment(x1, x2 float64) (Segment, error) {
	if x1 == x2 {
		return Segment{}, fmt.Errorf("%w: x1 = x2 = %g", ErrDegenerateSegment, x1)
	}
	return Segment{X1: x1, X2: x2}, nil
}

// At interpolates between y1 (at X1) and y2 (at X2).
func (s Segment) At(y1, y2, x float64) float64 {
	return Lerp(s.X1, y1, s.X2, y2, x)
}
