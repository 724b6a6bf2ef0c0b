package domain

import "math"

// Density calculates the in situ density of water in kg/m³ (UNESCO EOS-80).
//
// Millero et al. 1980, Deep-Sea Res. 27A, 255-264; JPOTS ninth report 1978,
// tenth report 1980.
//
//   - tC: temperature, °C
//   - pMbar: absolute pressure, mBar
//   - sPSU: salinity, PSU
//
// Inputs outside the oceanographic range are not rejected; the polynomials
// simply extrapolate.
func Density(tC, pMbar, sPSU float64) float64 {
	t := tC
	s := sPSU
	p := pMbar / 1000.0
	sr := math.Sqrt(math.Abs(s))

	// Density anomaly at one standard atmosphere.
	sig := (((4.8314e-4 * s) +
		((-1.6546e-6*t+1.0227e-4)*t-5.72466e-3)*sr +
		(((5.3875e-9*t-8.2467e-7)*t+7.6438e-5)*t-4.0899e-3)*t + 0.824493) * s) +
		((((6.536332e-9*t-1.120083e-6)*t+1.001685e-4)*t-9.095290e-3)*t+6.793952e-2)*t - 0.157406

	// Secant bulk modulus K(t, p, s) = K0 + A·p + B·p².
	b := ((9.1697e-10*t+2.0816e-8)*t-9.9348e-7)*s + (5.2787e-8*t-6.12293e-6)*t + 8.50935e-5

	k0s := ((-5.3009e-4*t+1.6483e-2)*t+7.944e-2)*sr + ((-6.1670e-5*t+1.09987e-2)*t-0.603459)*t + 54.6746
	k0 := k0s*s + (((-5.155288e-5*t+1.360477e-2)*t-2.327105)*t+148.4206)*t + 19652.21

	a := (1.91075e-4*sr+(-1.6078e-6*t-1.0981e-5)*t+2.2838e-3)*s +
		((-5.77905e-7*t+1.16092e-4)*t+1.43713e-3)*t + 3.239908

	k := (b*p+a)*p + k0

	return 1000.0 + (k*sig+1000.0*p)/(k-p)
}
