package domain

import "go.ngs.io/seawater/internal/interp"

// segmentCursor tracks the profile segment an integrator is currently
// inside. The abscissa is pressure for DepthByPressure and depth for
// VerticalSoundPath; p carries the pressure bounds in both cases.
type segmentCursor struct {
	profile TSProfile
	idx     int // Index of the segment's upper point.

	seg    interp.Segment
	t1, t2 float64
	s1, s2 float64
	p1, p2 float64
}

func newSegmentCursor(profile TSProfile, x1, x2, p1, p2 float64) (*segmentCursor, error) {
	seg, err := interp.NewSegment(x1, x2)
	if err != nil {
		return nil, err
	}
	return &segmentCursor{
		profile: profile,
		idx:     1,
		seg:     seg,
		t1:      profile[0].T,
		t2:      profile[1].T,
		s1:      profile[0].S,
		s2:      profile[1].S,
		p1:      p1,
		p2:      p2,
	}, nil
}

// upper returns the abscissa at which the current segment ends.
func (c *segmentCursor) upper() float64 { return c.seg.X2 }

// last reports whether the cursor sits on the deepest segment.
func (c *segmentCursor) last() bool { return c.idx == len(c.profile)-1 }

// next returns the profile point the cursor would move to.
func (c *segmentCursor) next() TSPoint { return c.profile[c.idx+1] }

// advance moves the upper bound down to become the lower one and takes the
// next profile point, located at abscissa x2 and pressure p2, as the new
// upper bound.
func (c *segmentCursor) advance(x2, p2 float64) error {
	seg, err := interp.NewSegment(c.seg.X2, x2)
	if err != nil {
		return err
	}
	c.idx++
	pt := c.profile[c.idx]
	c.seg = seg
	c.t1, c.s1, c.p1 = c.t2, c.s2, c.p2
	c.t2, c.s2, c.p2 = pt.T, pt.S, p2
	return nil
}

// at interpolates temperature, salinity and pressure at abscissa x.
func (c *segmentCursor) at(x float64) (t, s, p float64) {
	return c.seg.At(c.t1, c.t2, x), c.seg.At(c.s1, c.s2, x), c.seg.At(c.p1, c.p2, x)
}
