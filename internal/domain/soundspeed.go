package domain

import "math"

// SoundSpeed calculates the speed of sound in water in m/s using the UNESCO
// equation (Chen and Millero, 1977), evaluated in nested form.
//
//   - tC: temperature, °C
//   - pMbar: absolute pressure, mBar
//   - sPSU: salinity, PSU
func SoundSpeed(tC, pMbar, sPSU float64) float64 {
	t := tC
	s := sPSU
	p := pMbar / 1000.0
	sr := math.Sqrt(math.Abs(s))

	d := 1.727e-3 - 7.9836e-6*p

	b1 := 7.3637e-5 + 1.7945e-7*t
	b0 := -1.922e-2 - 4.42e-5*t
	b := b0 + b1*p

	a3 := (-3.389e-13*t+6.649e-12)*t + 1.100e-10
	a2 := ((7.988e-12*t-1.6002e-10)*t+9.1041e-9)*t - 3.9064e-7
	a1 := (((-2.0122e-10*t+1.0507e-8)*t-6.4885e-8)*t-1.2580e-5)*t + 9.4742e-5
	a0 := (((-3.21e-8*t+2.006e-6)*t+7.164e-5)*t-1.262e-2)*t + 1.389
	a := ((a3*p+a2)*p+a1)*p + a0

	c3 := (-2.3643e-12*t+3.8504e-10)*t - 9.7729e-9
	c2 := (((1.0405e-12*t-2.5335e-10)*t+2.5974e-8)*t-1.7107e-6)*t + 3.1260e-5
	c1 := (((-6.1185e-10*t+1.3621e-7)*t-8.1788e-6)*t+6.8982e-4)*t + 0.153563
	c0 := ((((3.1464e-9*t-1.47800e-6)*t+3.3420e-4)*t-5.80852e-2)*t+5.03711)*t + 1402.388
	c := ((c3*p+c2)*p+c1)*p + c0

	return c + (a+b*sr+d*s)*s
}

// Chen-Millero coefficients as published (direct power series).
const (
	c00 = 1402.388
	c01 = 5.03830
	c02 = -5.81090e-2
	c03 = 3.3432e-4
	c04 = -1.47797e-6
	c05 = 3.1419e-9
	c10 = 0.153563
	c11 = 6.8999e-4
	c12 = -8.1829e-6
	c13 = 1.3632e-7
	c14 = -6.1260e-10
	c20 = 3.1260e-5
	c21 = -1.7111e-6
	c22 = 2.5986e-8
	c23 = -2.5353e-10
	c24 = 1.0415e-12
	c30 = -9.7729e-9
	c31 = 3.8513e-10
	c32 = -2.3654e-12

	a00 = 1.389
	a01 = -1.262e-2
	a02 = 7.166e-5
	a03 = 2.008e-6
	a04 = -3.21e-8
	a10 = 9.4742e-5
	a11 = -1.2583e-5
	a12 = -6.4928e-8
	a13 = 1.0515e-8
	a14 = -2.0142e-10
	a20 = -3.9064e-7
	a21 = 9.1061e-9
	a22 = -1.6009e-10
	a23 = 7.994e-12
	a30 = 1.100e-10
	a31 = 6.651e-12
	a32 = -3.391e-13

	b00 = -1.922e-2
	b01 = -4.42e-5
	b10 = 7.3637e-5
	b11 = 1.7950e-7

	d00 = 1.727e-3
	d10 = -7.9836e-6
)

// SoundSpeedDirect evaluates the Chen-Millero equation term by term using
// the published coefficient table. It agrees with SoundSpeed to within a
// few hundredths of m/s over the oceanographic range; SoundSpeed is the one
// to use in loops.
func SoundSpeedDirect(tC, pMbar, sPSU float64) float64 {
	t := tC
	t2 := t * t
	t3 := t2 * t
	t4 := t3 * t
	s := sPSU
	p := pMbar / 1000.0
	p2 := p * p
	p3 := p2 * p

	cw := (c00 + c01*t + c02*t2 + c03*t3 + c04*t4 + c05*t4*t) +
		(c10+c11*t+c12*t2+c13*t3+c14*t4)*p +
		(c20+c21*t+c22*t2+c23*t3+c24*t4)*p2 +
		(c30+c31*t+c32*t2)*p3

	a := (a00 + a01*t + a02*t2 + a03*t3 + a04*t4) +
		(a10+a11*t+a12*t2+a13*t3+a14*t4)*p +
		(a20+a21*t+a22*t2+a23*t3)*p2 +
		(a30+a31*t+a32*t2)*p3

	b := b00 + b01*t + (b10+b11*t)*p

	d := d00 + d10*p

	return cw + a*s + b*s*math.Sqrt(math.Abs(s)) + d*s*s
}

// SoundSpeedPlausible reports whether v lies within
// [MinSoundSpeedMps, MaxSoundSpeedMps].
func SoundSpeedPlausible(v float64) bool {
	return v >= MinSoundSpeedMps && v <= MaxSoundSpeedMps
}
