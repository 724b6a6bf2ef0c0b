package domain

// PressureFromDepth returns the pressure in mBar at depth h (m) below a
// surface at pressure p0 (mBar), assuming constant density rho (kg/m³) and
// gravity g (m/s²) over the water column.
func PressureFromDepth(h, p0, rho, g float64) float64 {
	return h*rho*g/100.0 + p0
}

// DepthFromPressure returns the distance in meters from a surface at
// pressure p0 (mBar) to the point where pressure is p (mBar), assuming
// constant density rho and gravity g. It is the inverse of
// PressureFromDepth.
func DepthFromPressure(p, p0, rho, g float64) float64 {
	return 100.0 * (p - p0) / (rho * g)
}
