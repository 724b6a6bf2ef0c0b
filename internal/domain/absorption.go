package domain

import "math"

// Absorption returns the acoustic absorption coefficient of sea water in
// dB/km after Francois and Garrison (1982). The result is the sum of boric
// acid, magnesium sulphate and pure water relaxation terms.
//
//   - fKHz: frequency, kHz
//   - tC: temperature, °C
//   - sPPT: salinity, ppt
//   - depthM: depth, m
//   - pH: acidity
//
// The sound speed inside the formula is the Francois-Garrison linear fit,
// not the UNESCO equation.
func Absorption(fKHz, tC, sPPT, depthM, pH float64) float64 {
	t := tC
	s := sPPT
	d := depthM
	theta := t + 273.0
	fSq := fKHz * fKHz

	c := 1412.0 + 3.21*t + 1.19*s + 0.0167*d

	// Boric acid.
	a1 := 8.86 / c * math.Pow(10, 0.78*pH-5)
	p1 := 1.0
	f1 := 2.8 * math.Sqrt(s/35.0) * math.Pow(10, 4-1245/theta)

	// Magnesium sulphate.
	a2 := 21.44 * s / c * (1 + 0.025*t)
	p2 := 1 - 1.37e-4*d + 6.2e-9*d*d
	f2 := 8.17 * math.Pow(10, 8-1990/theta) / (1 + 0.0018*(s-35))

	// Pure water.
	p3 := 1 - 3.83e-5*d + 4.9e-10*d*d
	var a3 float64
	if t <= 20 {
		a3 = ((-1.50e-8*t+9.11e-7)*t-2.59e-5)*t + 4.937e-4
	} else {
		a3 = ((-6.5e-10*t+1.45e-7)*t-1.146e-5)*t + 3.964e-4
	}

	boric := a1 * p1 * f1 * fSq / (fSq + f1*f1)
	magnesium := a2 * p2 * f2 * fSq / (fSq + f2*f2)
	water := a3 * p3 * fSq

	return boric + magnesium + water
}
