package domain

import "math"

// FreezingPoint returns the freezing temperature of sea water in °C.
//
// Algorithms for computation of fundamental properties of seawater,
// Unesco technical papers in marine science 44, 1983, p. 30.
//
//   - pMbar: pressure, mBar
//   - sPSU: salinity, PSU
func FreezingPoint(pMbar, sPSU float64) float64 {
	s := sPSU
	return (-0.0575+1.710523e-3*math.Sqrt(math.Abs(s))-2.154996e-4*s)*s - 7.53e-6*pMbar
}
